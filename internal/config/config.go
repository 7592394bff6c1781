/*
Package config reads the process configuration from the environment.
A .env file in the working directory is loaded first when present.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config is read once at startup.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int

	// AppEnv is "development" or "production". It selects log format and cookie security.
	AppEnv string

	LogLevel string

	// GeminiAPIKey is the model credential. The gateway refuses to start without it.
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiHTTPTimeout time.Duration

	// SessionSecret signs the dashboard cookie. Empty means a random per-process secret.
	SessionSecret string

	// DashboardCacheSize bounds how many browser sessions are kept in memory.
	DashboardCacheSize int
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the environment. It fails only on values that are present but malformed.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:        envOr("APP_ENV", "development"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		GeminiAPIKey:  firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	// Fall back to 8080 if PORT is not set, like the rest of our services.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}
	cfg.Port = port

	cfg.GeminiHTTPTimeout = 60 * time.Second
	if raw := os.Getenv("GEMINI_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid GEMINI_HTTP_TIMEOUT %q", raw)
		}
		cfg.GeminiHTTPTimeout = d
	}

	cfg.DashboardCacheSize = 1024
	if raw := os.Getenv("DASHBOARD_CACHE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid DASHBOARD_CACHE_SIZE %q", raw)
		}
		cfg.DashboardCacheSize = n
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
