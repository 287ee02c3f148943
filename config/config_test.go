package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 24*time.Hour, cfg.TokenLifetime)
	assert.Zero(t, cfg.SimulatedDelay)
	assert.False(t, cfg.Debug)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_ADDR", ":9090")
	t.Setenv("STOREFRONT_STORE", StoreSQLite)
	t.Setenv("STOREFRONT_SQLITE_PATH", "/tmp/demo.db")
	t.Setenv("STOREFRONT_TOKEN_LIFETIME", "1h")
	t.Setenv("STOREFRONT_SIMULATED_DELAY", "250ms")
	t.Setenv("STOREFRONT_DEBUG", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/demo.db", cfg.SQLitePath)
	assert.Equal(t, time.Hour, cfg.TokenLifetime)
	assert.Equal(t, 250*time.Millisecond, cfg.SimulatedDelay)
	assert.True(t, cfg.Debug)
}

func TestFromEnv_InvalidStore(t *testing.T) {
	t.Setenv("STOREFRONT_STORE", "postgres")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_REDIS_DB", "not-a-number")
	t.Setenv("STOREFRONT_TOKEN_LIFETIME", "soon")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.TokenLifetime)
}

func TestValidate_RedisDBBounds(t *testing.T) {
	cfg := Config{
		Store:         StoreRedis,
		RedisDB:       42,
		TokenLifetime: time.Hour,
	}

	assert.Error(t, cfg.Validate())
}
