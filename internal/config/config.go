package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"garden-planner-go/pkg/logger"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDevelopment = "development"

	defaultConfigFile  = "config.yaml"
	defaultSecretsFile = "secrets.json"

	defaultJWTSecret     = "dev-secret-change-me"
	defaultAdminPassword = "Admin123!"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	// TrustedProxies may set X-Forwarded-For / X-Real-IP for the rate limiter.
	TrustedProxies []netip.Prefix
	DB             DBConfig
	Auth           AuthConfig
	Cache          CacheConfig
	Seed           SeedConfig
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
	Retry           RetryConfig
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type AuthConfig struct {
	JWTSecret          string
	Issuer             string
	TokenTTL           time.Duration
	RememberMeTTL      time.Duration
	LoginRatePerMinute float64
	LoginBurst         int
}

type CacheConfig struct {
	Size          int
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
}

// Load resolves configuration from, lowest to highest precedence: built-in
// defaults, the config file, the secrets file and the environment.
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := locate(os.Getenv("GARDEN_CONFIG"), defaultConfigFile)
	if err != nil {
		return Config{}, err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
		log.Info("config: loaded file", "path", configPath)
	}

	secretsPath, err := locate(os.Getenv("GARDEN_SECRETS"), defaultSecretsFile)
	if err != nil {
		return Config{}, err
	}
	if secretsPath != "" {
		v.SetConfigFile(secretsPath)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read secrets %s: %w", secretsPath, err)
		}
		log.Info("config: merged secrets", "path", secretsPath)
	}

	cfg := fromViper(v)
	cfg.TrustedProxies, err = parsePrefixes(v.GetString("http.trusted_proxies"))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate refuses the built-in development credentials outside development.
func (c Config) Validate() error {
	if strings.EqualFold(strings.TrimSpace(c.Env), EnvDevelopment) {
		return nil
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" || c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("config: auth.jwt_secret must be set when env is %q", c.Env)
	}
	if c.Seed.Enabled && c.Seed.AdminPassword == defaultAdminPassword {
		return fmt.Errorf("config: seed.admin_password must be changed when env is %q", c.Env)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.cors_origins", "http://localhost:5173")
	v.SetDefault("http.trusted_proxies", "")
	v.SetDefault("env", EnvDevelopment)

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "garden_planner")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.sqlite_path", "garden-planner.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("db.migrate", true)
	v.SetDefault("db.retry_attempts", 3)
	v.SetDefault("db.retry_base_delay", 200*time.Millisecond)
	v.SetDefault("db.retry_max_delay", 5*time.Second)

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.issuer", "garden-planner")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.remember_me_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_per_minute", 10.0)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.admin_email", "admin@gardenplanner.local")
	v.SetDefault("seed.admin_password", defaultAdminPassword)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		HTTPPort:    v.GetString("http.port"),
		Env:         v.GetString("env"),
		CORSOrigins: splitCSV(v.GetString("http.cors_origins")),
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			DSN:             v.GetString("db.dsn"),
			Host:            v.GetString("db.host"),
			Port:            v.GetString("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			TimeZone:        v.GetString("db.timezone"),
			SQLitePath:      v.GetString("db.sqlite_path"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
			Migrate:         v.GetBool("db.migrate"),
			Retry: RetryConfig{
				MaxAttempts: v.GetInt("db.retry_attempts"),
				BaseDelay:   v.GetDuration("db.retry_base_delay"),
				MaxDelay:    v.GetDuration("db.retry_max_delay"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("auth.jwt_secret"),
			Issuer:             v.GetString("auth.issuer"),
			TokenTTL:           v.GetDuration("auth.token_ttl"),
			RememberMeTTL:      v.GetDuration("auth.remember_me_ttl"),
			LoginRatePerMinute: v.GetFloat64("auth.login_rate_per_minute"),
			LoginBurst:         v.GetInt("auth.login_burst"),
		},
		Cache: CacheConfig{
			Size:          v.GetInt("cache.size"),
			TTL:           v.GetDuration("cache.ttl"),
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: v.GetString("cache.redis_password"),
			RedisDB:       v.GetInt("cache.redis_db"),
		},
		Seed: SeedConfig{
			Enabled:       v.GetBool("seed.enabled"),
			AdminEmail:    strings.ToLower(strings.TrimSpace(v.GetString("seed.admin_email"))),
			AdminPassword: v.GetString("seed.admin_password"),
		},
	}
}

// locate returns explicit when set (it must exist), otherwise the nearest
// fallback file walking up from the working directory, or "" when absent.
func locate(explicit, fallback string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return filepath.Clean(explicit), nil
	}

	path, err := findUpwards(fallback)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parsePrefixes reads a comma-separated list of CIDRs or bare addresses.
func parsePrefixes(value string) ([]netip.Prefix, error) {
	parts := splitCSV(value)
	prefixes := make([]netip.Prefix, 0, len(parts))
	for _, part := range parts {
		if prefix, err := netip.ParsePrefix(part); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("config: invalid trusted proxy %q", part)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
