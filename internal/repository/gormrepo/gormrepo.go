// Package gormrepo holds what the gorm-backed repositories share: retry of
// transient failures and translation of driver errors into domain errors.
package gormrepo

import (
	"context"
	"fmt"

	"garden-planner-go/internal/db"
	"garden-planner-go/internal/domain/common"
	"gorm.io/gorm"
)

// SearchClause matches LikePattern output against a lowered column.
const SearchClause = "LOWER(%s) LIKE ? ESCAPE '\\'"

type Base struct {
	DB    *gorm.DB
	Retry *db.RetryPolicy
}

func NewBase(gormDB *gorm.DB, retry *db.RetryPolicy) Base {
	return Base{DB: gormDB, Retry: retry}
}

// Do runs fn against the session, retrying transient failures. Inside a
// transaction Retry is nil and fn runs once.
func (b Base) Do(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := b.Retry.Do(ctx, op, func(ctx context.Context) error {
		return fn(b.DB.WithContext(ctx))
	})
	return Translate(err)
}

// InTx runs fn in one transaction; a transient failure replays the whole
// transaction.
func (b Base) InTx(ctx context.Context, op string, fn func(tx Base) error) error {
	err := b.Retry.Do(ctx, op, func(ctx context.Context) error {
		return b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(Base{DB: tx})
		})
	})
	return Translate(err)
}

// Search adds a case-insensitive substring filter over columns, OR-ed.
func Search(query *gorm.DB, text string, columns ...string) *gorm.DB {
	if text == "" || len(columns) == 0 {
		return query
	}
	pattern := common.LikePattern(text)
	condition := query.Session(&gorm.Session{NewDB: true})
	for i, column := range columns {
		clause := fmt.Sprintf(SearchClause, column)
		if i == 0 {
			condition = condition.Where(clause, pattern)
			continue
		}
		condition = condition.Or(clause, pattern)
	}
	return query.Where(condition)
}

// Translate maps unique violations onto common.ErrDuplicate.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", common.ErrDuplicate, err)
	}
	return err
}
