package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath       = "./atlasflow.db"
	defaultPort         = "8080"
	defaultBaseCurrency = "MAD"
	defaultEnv          = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath        string
	Port          string
	BaseCurrency  string
	Env           string
	MigrationsDir string
}

// Load reads environment variables and returns a populated Config.
// A local .env file is loaded first when present; production should use
// real env injection.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		BaseCurrency:  os.Getenv("BASE_CURRENCY"),
		Env:           os.Getenv("APP_ENV"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = defaultBaseCurrency
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "./migrations"
	}

	return cfg
}

// IsDev reports whether the app runs with development conveniences
// (demo seed data, verbose logging).
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}
