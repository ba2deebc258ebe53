// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"garden-planner-go/internal/config"
	"garden-planner-go/internal/db"
	"garden-planner-go/pkg/logger"
	"gorm.io/gorm"
)

// Open returns a fresh migrated store private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}

	gormDB, err := db.Open(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.Migrate(gormDB, config.DriverSQLite, logger.Nop()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return gormDB
}

// OpenSeeded returns a migrated store holding the default seed rows.
func OpenSeeded(t *testing.T) (*gorm.DB, db.SeedResult) {
	t.Helper()

	gormDB := Open(t)
	result, err := db.Seed(t.Context(), gormDB, config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@gardenplanner.local",
		AdminPassword: "Admin123!",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("seed sqlite: %v", err)
	}
	return gormDB, result
}
