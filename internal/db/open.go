package db

import (
	"fmt"
	"strings"
	"time"

	"garden-planner-go/internal/config"
	"garden-planner-go/pkg/logger"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute

	// modernc.org/sqlite registers itself under this name.
	sqliteDriverName = "sqlite"
)

// Open connects to the configured store and tunes the pool.
func Open(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg, log)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}
	if cfg.Driver == config.DriverSQLite {
		// one writer at a time; in-memory databases also live per connection.
		maxOpen = 1
		maxIdle = 1
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("db: connected", "driver", cfg.Driver)
	return gormDB, nil
}

func dialectorFor(cfg config.DBConfig, log logger.Logger) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		if cfg.DSN != "" {
			log.Info("db: connecting using DSN")
		} else {
			log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
		}
		return postgres.Open(cfg.GetDSN()), nil
	case config.DriverSQLite:
		dsn := sqliteDSN(cfg.GetDSN())
		log.Info("db: opening sqlite", "dsn", dsn)
		return gormsqlite.New(gormsqlite.Config{DriverName: sqliteDriverName, DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// sqliteDSN turns on foreign keys and a busy timeout unless the DSN already
// sets pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
