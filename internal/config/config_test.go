package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "blood_inventory.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 500, cfg.Donors)
	assert.Equal(t, 1500, cfg.Donations)
	assert.Equal(t, 600, cfg.Requests)
	assert.Equal(t, int64(123), cfg.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/blood")
	t.Setenv("DB_PATH", "/tmp/blood.db")
	t.Setenv("GEN_DONORS", "50")
	t.Setenv("GEN_SEED", "7")

	cfg := Load()

	assert.Equal(t, "/tmp/blood", cfg.DataDir)
	assert.Equal(t, "/tmp/blood.db", cfg.DBPath)
	assert.Equal(t, 50, cfg.Donors)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("GEN_DONATIONS", "lots")

	cfg := Load()
	assert.Equal(t, 1500, cfg.Donations)
}
