package config

import (
	"os"
	"testing"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.DB.Driver != DBDriverSQLite {
		t.Fatalf("expected sqlite driver by default, got %q", cfg.DB.Driver)
	}

	if cfg.DB.DSN != "file::memory:?cache=shared" {
		t.Fatalf("unexpected default DSN %q", cfg.DB.DSN)
	}

	if !cfg.Seed.Enable {
		t.Fatal("expected seeding enabled by default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("POSHAAK_DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver to return an error")
	}
}

func TestIsDevIsProd(t *testing.T) {
	app := AppConfig{Env: "Development"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("expected development env")
	}
	app.Env = "PRODUCTION"
	if !app.IsProd() || app.IsDev() {
		t.Fatal("expected production env")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
}
