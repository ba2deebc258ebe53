package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseTimeParam accepts RFC 3339 or a bare date. A bare date used as an
// upper bound covers the whole day.
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", value)
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

func parseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid bool %q", value)
	}
	return &parsed, nil
}

// checkBodyID rejects a body whose globalId names another resource than the
// path.
func checkBodyID(pathID, bodyID string) error {
	bodyID = strings.TrimSpace(bodyID)
	if bodyID == "" || strings.EqualFold(bodyID, pathID) {
		return nil
	}
	return fmt.Errorf("globalId does not match the path")
}
