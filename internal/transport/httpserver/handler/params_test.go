package handler

import (
	"testing"
	"time"
)

func TestParseTimeParam(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		endOfDay bool
		want     *time.Time
		wantErr  bool
	}{
		{name: "empty", value: " "},
		{name: "date", value: "2026-05-01", want: ptr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))},
		{name: "date end of day", value: "2026-05-01", endOfDay: true, want: ptr(time.Date(2026, 5, 1, 23, 59, 59, 999999999, time.UTC))},
		{name: "rfc3339 to utc", value: "2026-05-01T10:00:00+02:00", want: ptr(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))},
		{name: "invalid", value: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeParam(tt.value, tt.endOfDay)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Fatalf("expected %v, got %v", *tt.want, *got)
			}
		})
	}
}

func TestCheckBodyID(t *testing.T) {
	if err := checkBodyID("abc", ""); err != nil {
		t.Fatalf("empty body id should pass, got %v", err)
	}
	if err := checkBodyID("abc", "ABC"); err != nil {
		t.Fatalf("case-insensitive match should pass, got %v", err)
	}
	if err := checkBodyID("abc", "def"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
