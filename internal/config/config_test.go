package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/creatorblue32/bonsai-medical/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:            ":8080",
		DBPath:          "test.db",
		LogLevel:        "INFO",
		FlushWorkers:    2,
		FlushQueueSize:  64,
		ShutdownTimeout: 30,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_BadWorkerCounts(t *testing.T) {
	cfg := validConfig()
	cfg.FlushWorkers = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.FlushQueueSize = -1
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("FLUSH_WORKER_COUNT", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:bonsai.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 2, cfg.FlushWorkers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesAndBadInt(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("FLUSH_WORKER_COUNT", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 2, cfg.FlushWorkers, "invalid int falls back to default")
}
