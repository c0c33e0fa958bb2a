package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Auth defaults to enabled, which requires a key.
	t.Setenv("VECTOR_INSIGHTS_API_KEY_MASTER", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)

	assert.Equal(t, 200.0, cfg.Analytics.BenchmarkROI)
	assert.Equal(t, 4.0, cfg.Analytics.BenchmarkROAS)
	assert.Equal(t, 0.25, cfg.Analytics.CostRatio)
	assert.Equal(t, 30, cfg.Analytics.BaselineDays)
	assert.Equal(t, 10, cfg.Analytics.TopLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VECTOR_INSIGHTS_API_KEY_MASTER", "test-key")
	t.Setenv("VECTOR_INSIGHTS_HTTP_ADDR", ":9999")
	t.Setenv("VECTOR_INSIGHTS_ENV", "production")
	t.Setenv("VECTOR_INSIGHTS_COST_RATIO", "0.3")
	t.Setenv("VECTOR_INSIGHTS_BASELINE_DAYS", "14")
	t.Setenv("VECTOR_INSIGHTS_AUTH_SKIP_PATHS", "/health, /metrics, /status")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.3, cfg.Analytics.CostRatio)
	assert.Equal(t, 14, cfg.Analytics.BaselineDays)
	assert.Equal(t, []string{"/health", "/metrics", "/status"}, cfg.Auth.SkipPaths)
}

func TestValidate(t *testing.T) {
	t.Run("auth enabled requires a master key", func(t *testing.T) {
		t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "true")
		t.Setenv("VECTOR_INSIGHTS_API_KEY_MASTER", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY_MASTER")
	})

	t.Run("auth disabled needs no key", func(t *testing.T) {
		t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "false")

		_, err := Load()
		assert.NoError(t, err)
	})

	t.Run("cost ratio outside unit interval is rejected", func(t *testing.T) {
		t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "false")
		t.Setenv("VECTOR_INSIGHTS_COST_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COST_RATIO")
	})

	t.Run("baseline days must be positive", func(t *testing.T) {
		t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "false")
		t.Setenv("VECTOR_INSIGHTS_BASELINE_DAYS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASELINE_DAYS")
	})
}
