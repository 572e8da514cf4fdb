package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  path: "storage/test.db"
http_server:
  address: "localhost:8082"
auth:
  jwt_secret: "0123456789abcdef0123"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("expected default driver %q, got %q", DriverSQLite, cfg.Storage.Driver)
	}
	if cfg.Storage.MaxConns != 5 {
		t.Fatalf("expected default max_conns 5, got %d", cfg.Storage.MaxConns)
	}
	if cfg.HTTPServer.ReadTimeout != 10*time.Second || cfg.HTTPServer.IdleTimeout != 60*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.HTTPServer)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HTTP_SERVER_ADDR", ":9999")
	path := writeConfig(t, `
env: "prod"
storage:
  path: "storage/test.db"
http_server:
  address: "localhost:8082"
  write_timeout: "3s"
auth:
  jwt_secret: "0123456789abcdef0123"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPServer.Addr != ":9999" {
		t.Fatalf("expected env override, got %q", cfg.HTTPServer.Addr)
	}
	if cfg.HTTPServer.WriteTimeout != 3*time.Second {
		t.Fatalf("expected write_timeout 3s, got %s", cfg.HTTPServer.WriteTimeout)
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  driver: "postgres"
http_server:
  address: "localhost:8082"
auth:
  jwt_secret: "0123456789abcdef0123"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "DatabaseURL") {
		t.Fatalf("expected DatabaseURL validation error, got %v", err)
	}
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage:
  path: "storage/test.db"
http_server:
  address: "localhost:8082"
auth:
  jwt_secret: "short"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for short jwt_secret")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing-file error, got %v", err)
	}
}
