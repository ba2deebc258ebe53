// Package common holds the lifecycle rules every stored entity shares:
// uuid identity, soft delete and version-checked updates.
package common

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ReservedID used to stand for "no selection". It is never generated and
// never resolves to a row.
const ReservedID = "-"

var (
	// ErrConflict means the row is still active but changed since it was read.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDuplicate means a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate value")
)

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id can refer to a stored row.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != ReservedID
}

// ExistsFunc reports whether an active row with id exists.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// ResolveMiss classifies a version-checked write that touched no rows: a row
// that still exists was changed concurrently, anything else is notFound.
func ResolveMiss(ctx context.Context, exists ExistsFunc, id string, notFound error) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		return ErrConflict
	}
	return notFound
}

// CheckVersion compares a caller-supplied version with the stored one.
// A nil expected version skips the check.
func CheckVersion(expected *int64, stored int64) error {
	if expected != nil && *expected != stored {
		return ErrConflict
	}
	return nil
}

// LikePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func LikePattern(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(query) + "%"
}
