package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot/inventory-engine/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "inventory.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.SeedDemoData)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("INVENTORY_PORT", "9000")
	t.Setenv("INVENTORY_DB_PATH", ":memory:")
	t.Setenv("INVENTORY_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("INVENTORY_SESSION_TTL", "2h")
	t.Setenv("INVENTORY_SEED_DEMO_DATA", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SeedDemoData)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("INVENTORY_PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
