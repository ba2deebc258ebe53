package db

import (
	"embed"
	"errors"
	"fmt"

	"garden-planner-go/internal/config"
	"garden-planner-go/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations for driver. Up to date is not an
// error.
func Migrate(gormDB *gorm.DB, driver string, log logger.Logger) error {
	m, err := newMigrator(gormDB, driver)
	if err != nil {
		return err
	}
	// m.Close would close the shared *sql.DB, so the migrator is left for GC.

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("db: migrations up to date", "driver", driver)
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	log.Info("db: migrations applied", "driver", driver, "version", version, "dirty", dirty)
	return nil
}

func newMigrator(gormDB *gorm.DB, driver string) (*migrate.Migrate, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	var (
		instance database.Driver
		dir      string
	)
	switch driver {
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		instance, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	case config.DriverPostgres, "":
		driver = config.DriverPostgres
		dir = "migrations/postgres"
		instance, err = migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
