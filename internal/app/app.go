package app

import (
	"context"
	"fmt"
	"net/http"

	"garden-planner-go/internal/auth"
	"garden-planner-go/internal/config"
	"garden-planner-go/internal/db"
	appointmentdomain "garden-planner-go/internal/domain/appointment"
	typedomain "garden-planner-go/internal/domain/appointmenttype"
	languagedomain "garden-planner-go/internal/domain/language"
	tododomain "garden-planner-go/internal/domain/todo"
	userdomain "garden-planner-go/internal/domain/user"
	vehicledomain "garden-planner-go/internal/domain/vehicle"
	"garden-planner-go/internal/metrics"
	appointmentrepo "garden-planner-go/internal/repository/gormrepo/appointment"
	typerepo "garden-planner-go/internal/repository/gormrepo/appointmenttype"
	languagerepo "garden-planner-go/internal/repository/gormrepo/language"
	todorepo "garden-planner-go/internal/repository/gormrepo/todo"
	userrepo "garden-planner-go/internal/repository/gormrepo/user"
	vehiclerepo "garden-planner-go/internal/repository/gormrepo/vehicle"
	"garden-planner-go/internal/repository/inmemory"
	redisrepo "garden-planner-go/internal/repository/redis"
	"garden-planner-go/internal/transport/httpserver"
	"garden-planner-go/internal/transport/httpserver/handler"
	"garden-planner-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

// Deps are the long-lived resources Build wires the services over.
type Deps struct {
	DB       *gorm.DB
	Cache    userdomain.IDCache
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	application := &App{cfg: cfg, log: log, db: dbConn}

	if cfg.DB.Migrate {
		if err := db.Migrate(dbConn, cfg.DB.Driver, log); err != nil {
			_ = application.Close()
			return nil, err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	log.Info("app: initializing user id cache")
	cache, redisClient := newIDCache(ctx, cfg.Cache, log)
	application.redis = redisClient

	log.Info("app: initializing router")
	router, err := Build(ctx, cfg, Deps{
		DB:       dbConn,
		Cache:    cache,
		Metrics:  collector,
		Gatherer: registry,
	}, log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

// Build seeds the store, wires repositories and services over deps.DB and
// returns the API router. The store must already be migrated.
func Build(ctx context.Context, cfg config.Config, deps Deps, log logger.Logger) (http.Handler, error) {
	cache := deps.Cache
	if cache == nil {
		cache = inmemory.NewUserIDCache(cfg.Cache.Size, cfg.Cache.TTL)
	}

	retry := db.NewRetryPolicy(cfg.DB.Retry, log)
	if deps.Metrics != nil {
		retry.OnRetry = deps.Metrics.RecordRetry
	}

	if cfg.Seed.Enabled {
		seeded, err := db.Seed(ctx, deps.DB, cfg.Seed, log)
		if err != nil {
			return nil, err
		}
		if seeded.AdminID != "" {
			cache.SetID(ctx, seeded.AdminEmail, seeded.AdminID)
		}
	}

	languages := languagedomain.NewService(languagerepo.NewGorm(deps.DB, retry))
	if err := languages.Load(ctx); err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}

	types := typedomain.NewService(typerepo.NewGorm(deps.DB, retry))
	vehicles := vehicledomain.NewService(vehiclerepo.NewGorm(deps.DB, retry))
	userStore := userrepo.NewGorm(deps.DB, retry)
	users := userdomain.NewService(userStore, vehicles, languages, cache)
	appointments := appointmentdomain.NewService(appointmentrepo.NewGorm(deps.DB, retry), types, userStore)
	todos := tododomain.NewService(todorepo.NewGorm(deps.DB, retry), appointments)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, cfg.Auth.RememberMeTTL)

	var logins handler.LoginRecorder
	if deps.Metrics != nil {
		logins = deps.Metrics
	}
	handlers := handler.New(handler.Services{
		AppointmentTypes: types,
		Appointments:     appointments,
		ToDos:            todos,
		Vehicles:         vehicles,
		Users:            users,
		Languages:        languages,
	}, tokens, logins, log)

	return httpserver.NewRouter(ctx, cfg, httpserver.RouterDeps{
		Handlers: handlers,
		Tokens:   tokens,
		Users:    users,
		Metrics:  deps.Metrics,
		Gatherer: deps.Gatherer,
	}, log), nil
}

// newIDCache prefers Redis when configured and reachable, otherwise a
// process-local LRU.
func newIDCache(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (userdomain.IDCache, *goredis.Client) {
	if cfg.RedisAddr == "" {
		return inmemory.NewUserIDCache(cfg.Size, cfg.TTL), nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("app: redis unreachable, using in-process cache", "addr", cfg.RedisAddr, "err", err)
		_ = client.Close()
		return inmemory.NewUserIDCache(cfg.Size, cfg.TTL), nil
	}
	log.Info("app: using redis user id cache", "addr", cfg.RedisAddr)
	return redisrepo.NewUserIDCache(client, cfg.TTL, log), client
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("app: close redis failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
