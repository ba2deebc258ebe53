package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"garden-planner-go/pkg/logger"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Retry.MaxAttempts != 3 || cfg.DB.Retry.MaxDelay != 5*time.Second {
		t.Fatalf("unexpected retry defaults %+v", cfg.DB.Retry)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, "config.yaml", "http:\n  port: \"9000\"\ndb:\n  name: from_file\n  dsn: file-dsn\nauth:\n  token_ttl: 2h\n")
	writeFile(t, dir, "secrets.json", `{"db": {"dsn": "secret-dsn"}, "auth": {"jwt_secret": "s3cret"}}`)
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "9100" {
		t.Fatalf("expected env to win for port, got %q", cfg.HTTPPort)
	}
	if cfg.DB.DSN != "secret-dsn" {
		t.Fatalf("expected secrets to override file dsn, got %q", cfg.DB.DSN)
	}
	if cfg.DB.Name != "from_file" {
		t.Fatalf("expected db name from file, got %q", cfg.DB.Name)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("expected jwt secret from secrets, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Fatalf("expected token ttl 2h, got %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadExplicitConfigMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GARDEN_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadDotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "DB_NAME=dotenv_db\nDB_HOST=dotenv-host\n")
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_NAME", "")
	os.Unsetenv("DB_NAME")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DB.Host != "env-host" {
		t.Fatalf("expected env host, got %q", cfg.DB.Host)
	}
	if cfg.DB.Name != "dotenv_db" {
		t.Fatalf("expected dotenv db name, got %q", cfg.DB.Name)
	}
}

func TestGetDSN(t *testing.T) {
	sqlite := DBConfig{Driver: DriverSQLite, SQLitePath: "local.db"}
	if got := sqlite.GetDSN(); got != "local.db" {
		t.Fatalf("expected sqlite path, got %q", got)
	}

	pg := DBConfig{Driver: DriverPostgres, Host: "h", User: "u", Password: "p", Name: "n", Port: "1", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC"
	if got := pg.GetDSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	explicit := DBConfig{DSN: "postgres://x"}
	if got := explicit.GetDSN(); got != "postgres://x" {
		t.Fatalf("expected explicit dsn, got %q", got)
	}
}

func TestLoadRejectsDefaultCredentialsOutsideDevelopment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")

	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for default jwt secret in production")
	}

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for default admin password in production")
	}

	t.Setenv("SEED_ADMIN_PASSWORD", "Tuinhek!2026")
	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.JWTSecret != "a-real-secret" {
		t.Fatalf("expected jwt secret from env, got %q", cfg.Auth.JWTSecret)
	}

	t.Setenv("SEED_ADMIN_PASSWORD", defaultAdminPassword)
	t.Setenv("SEED_ENABLED", "false")
	if _, err := Load(logger.Nop()); err != nil {
		t.Fatalf("expected the seed password to be ignored without seeding, got %v", err)
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("expected two prefixes, got %v", cfg.TrustedProxies)
	}
	if cfg.TrustedProxies[1].String() != "192.0.2.7/32" {
		t.Fatalf("expected bare address as /32, got %s", cfg.TrustedProxies[1])
	}

	t.Setenv("HTTP_TRUSTED_PROXIES", "not-a-cidr")
	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for invalid trusted proxy")
	}
}
