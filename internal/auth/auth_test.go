package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Geheim123!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "Geheim123!"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestRoleSetMembershipIsFlat(t *testing.T) {
	roles := NewRoleSet(RoleAdmin)
	if roles.Has(RoleUser) {
		t.Fatalf("admin must not imply user")
	}
	if !roles.HasAny(RoleEmployee, RoleAdmin) {
		t.Fatalf("expected HasAny to match admin")
	}
	if roles.HasAny() {
		t.Fatalf("empty allow-list must not match")
	}
}

func TestRoleSetFromStringsDropsUnknown(t *testing.T) {
	roles := RoleSetFromStrings([]string{"admin", "Gardener", " employee "})
	got := roles.Strings()
	if len(got) != 2 || got[0] != "Admin" || got[1] != "Employee" {
		t.Fatalf("unexpected roles %v", got)
	}
}

func TestPrincipalCanSeeAll(t *testing.T) {
	user := Principal{UserID: "u-1", Roles: NewRoleSet(RoleUser)}
	if user.CanSeeAll() {
		t.Fatalf("expected customer to be scoped")
	}
	employee := Principal{UserID: "u-2", Roles: NewRoleSet(RoleEmployee)}
	if !employee.CanSeeAll() {
		t.Fatalf("expected employee to see all")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "garden-planner", time.Hour, 24*time.Hour)
	principal := Principal{UserID: "u-1", Email: "Jan@Example.com", Roles: NewRoleSet(RoleUser, RoleEmployee)}

	token, expiresAt, err := issuer.Issue(principal, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) > time.Hour+time.Minute {
		t.Fatalf("expected short ttl, got %v", expiresAt)
	}

	parsed, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.UserID != "u-1" || parsed.Email != "jan@example.com" {
		t.Fatalf("unexpected principal %+v", parsed)
	}
	if !parsed.Roles.Has(RoleEmployee) || !parsed.Roles.Has(RoleUser) || parsed.Roles.Has(RoleAdmin) {
		t.Fatalf("unexpected roles %v", parsed.Roles.Strings())
	}
}

func TestTokenRememberMeUsesLongTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret", "garden-planner", time.Hour, 48*time.Hour)
	_, expiresAt, err := issuer.Issue(Principal{Email: "a@b.c"}, true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) < 47*time.Hour {
		t.Fatalf("expected remember-me ttl, got %v", expiresAt)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", "garden-planner", time.Hour, time.Hour)
	other := NewTokenIssuer("other", "garden-planner", time.Hour, time.Hour)

	token, _, err := other.Issue(Principal{Email: "a@b.c"}, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	expired := NewTokenIssuer("secret", "garden-planner", time.Hour, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.Issue(Principal{Email: "a@b.c"}, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
