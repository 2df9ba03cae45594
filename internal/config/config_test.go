package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("BASE_CURRENCY", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("MIGRATIONS_DIR", "")

	cfg := Load()

	if cfg.DBPath != defaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, defaultDBPath)
	}
	if cfg.Port != defaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, defaultPort)
	}
	if cfg.BaseCurrency != defaultBaseCurrency {
		t.Errorf("BaseCurrency = %q, want %q", cfg.BaseCurrency, defaultBaseCurrency)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_CURRENCY", "EUR")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MIGRATIONS_DIR", "/opt/migrations")

	cfg := Load()

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, want EUR", cfg.BaseCurrency)
	}
	if cfg.IsDev() {
		t.Error("production env must not report IsDev")
	}
}
