package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "data/dataBase.csv", cfg.Data.CSVPath)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 100, cfg.Search.CacheCapacity)
	assert.Equal(t, 50, cfg.Search.RetrievalK)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SEARCH_RETRIEVAL_K", "20")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Search.RetrievalK)
	assert.True(t, cfg.OTEL.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.RedisAddr())
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}
