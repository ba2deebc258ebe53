package db_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"garden-planner-go/internal/config"
	"garden-planner-go/internal/db"
	"garden-planner-go/internal/db/dbtest"
	"garden-planner-go/internal/domain/user"
	"garden-planner-go/internal/domain/vehicle"
	"garden-planner-go/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMigrateIsIdempotent(t *testing.T) {
	gormDB := dbtest.Open(t)

	if err := db.Migrate(gormDB, config.DriverSQLite, logger.Nop()); err != nil {
		t.Fatalf("expected second migrate to be a no-op, got %v", err)
	}
}

func TestSeedOnlyFillsEmptyTables(t *testing.T) {
	gormDB, first := dbtest.OpenSeeded(t)
	if first.AdminID == "" {
		t.Fatalf("expected admin to be seeded")
	}

	var roles []user.UserRole
	if err := gormDB.Where("user_id = ?", first.AdminID).Find(&roles).Error; err != nil {
		t.Fatalf("load roles: %v", err)
	}
	if len(roles) != 4 {
		t.Fatalf("expected admin to hold 4 roles, got %d", len(roles))
	}

	second, err := db.Seed(context.Background(), gormDB, config.SeedConfig{
		AdminEmail:    "admin@gardenplanner.local",
		AdminPassword: "Admin123!",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.AdminID != first.AdminID {
		t.Fatalf("expected same admin, got %s and %s", first.AdminID, second.AdminID)
	}

	var users, vehicles int64
	gormDB.Model(&user.AgendaUser{}).Count(&users)
	gormDB.Model(&vehicle.Vehicle{}).Count(&vehicles)
	if users != 1 || vehicles != 2 {
		t.Fatalf("expected 1 user and 2 vehicles after reseed, got %d and %d", users, vehicles)
	}
}

func TestSeedSkipsTableWithSoftDeletedRows(t *testing.T) {
	gormDB := dbtest.Open(t)
	v := vehicle.Vehicle{ID: "v-1", Brand: "Iveco", LicensePlate: "X-1", Version: 1}
	if err := gormDB.Create(&v).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	if err := gormDB.Delete(&v).Error; err != nil {
		t.Fatalf("delete vehicle: %v", err)
	}

	if _, err := db.Seed(context.Background(), gormDB, config.SeedConfig{}, logger.Nop()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var active int64
	gormDB.Model(&vehicle.Vehicle{}).Count(&active)
	if active != 0 {
		t.Fatalf("expected no seeded vehicles, got %d", active)
	}
}

func TestUniqueViolationIsDetected(t *testing.T) {
	gormDB := dbtest.Open(t)
	first := vehicle.Vehicle{ID: "v-1", Brand: "Iveco", LicensePlate: "DUP-1", Version: 1}
	second := vehicle.Vehicle{ID: "v-2", Brand: "Iveco", LicensePlate: "DUP-1", Version: 1}

	if err := gormDB.Create(&first).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	err := gormDB.Create(&second).Error
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	// the plate is free again once the holder is soft-deleted
	if err := gormDB.Delete(&first).Error; err != nil {
		t.Fatalf("delete vehicle: %v", err)
	}
	if err := gormDB.Create(&second).Error; err != nil {
		t.Fatalf("expected reuse of deleted plate, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"unique", &pgconn.PgError{Code: "23505"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
	}

	for _, tc := range cases {
		if got := db.IsTransient(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRetryPolicy(t *testing.T) {
	policy := db.NewRetryPolicy(config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, logger.Nop())
	retries := 0
	policy.OnRetry = func(op string, attempt int, err error) { retries++ }

	calls := 0
	err := policy.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return driver.ErrBadConn
		}
		return nil
	})
	if err != nil || calls != 3 || retries != 2 {
		t.Fatalf("expected success on third attempt, got err=%v calls=%d retries=%d", err, calls, retries)
	}

	calls = 0
	err = policy.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return driver.ErrBadConn
	})
	if !errors.Is(err, driver.ErrBadConn) || calls != 3 {
		t.Fatalf("expected to give up after 3 attempts, got err=%v calls=%d", err, calls)
	}

	calls = 0
	permanent := errors.New("boom")
	err = policy.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected permanent error without retry, got err=%v calls=%d", err, calls)
	}
}
