package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultDBPath     = "./costroll.db"
	defaultPort       = "8080"
	defaultLogLevel   = "info"
	defaultEnv        = "prod"
	defaultAPIBaseURL = "http://localhost:8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env        string
	DBPath     string
	Port       string
	LogLevel   string
	SeedDemo   bool
	APIBaseURL string
	APIToken   string
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_, _ = loadDotEnv(".env")

	cfg := Config{
		Env:        strings.ToLower(os.Getenv("APP_ENV")),
		DBPath:     os.Getenv("DB_PATH"),
		Port:       os.Getenv("PORT"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		APIBaseURL: os.Getenv("API_BASE_URL"),
		APIToken:   os.Getenv("API_TOKEN"),
	}
	cfg.SeedDemo, _ = strconv.ParseBool(os.Getenv("SEED_DEMO"))

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}

	return cfg
}
