// Package config loads server settings from the environment, with a .env
// file layered in for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabaseURL selects the postgres store when set; empty means the
	// in-memory store (rooms do not survive a restart).
	DatabaseURL string
	// StreamKeepAlive is how often idle stream connections get a
	// keep-alive comment.
	StreamKeepAlive time.Duration
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

// Load reads the environment. A missing .env file is not an error; real
// deployments set variables directly.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getEnv("ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		StreamKeepAlive: 2 * time.Second,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	if ms, err := strconv.Atoi(os.Getenv("POLL_INTERVAL_MS")); err == nil && ms > 0 {
		cfg.StreamKeepAlive = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
