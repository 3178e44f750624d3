package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	FlushWorkers    int
	FlushQueueSize  int
	ShutdownTimeout int // seconds
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:bonsai.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		FlushWorkers:    envIntOr("FLUSH_WORKER_COUNT", 2),
		FlushQueueSize:  envIntOr("FLUSH_QUEUE_SIZE", 64),
		ShutdownTimeout: envIntOr("SHUTDOWN_TIMEOUT_SECONDS", 30),
	}
}

// Validate checks the loaded configuration for values the server cannot
// start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.FlushWorkers <= 0 {
		return fmt.Errorf("FLUSH_WORKER_COUNT must be positive, got %d", c.FlushWorkers)
	}
	if c.FlushQueueSize <= 0 {
		return fmt.Errorf("FLUSH_QUEUE_SIZE must be positive, got %d", c.FlushQueueSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.ShutdownTimeout)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
