package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Warehouse.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VECTOR_INSIGHTS_HTTP_ADDR", ":9090")
	t.Setenv("VECTOR_INSIGHTS_API_KEY_MASTER", "secret")
	t.Setenv("VECTOR_INSIGHTS_DB_PORT", "5433")
	t.Setenv("VECTOR_INSIGHTS_AUTH_SKIP_PATHS", "/health, /metrics ,/datasets/status")
	t.Setenv("VECTOR_INSIGHTS_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, []string{"/health", "/metrics", "/datasets/status"}, cfg.Auth.SkipPaths)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoadRequiresMasterKey(t *testing.T) {
	t.Setenv("VECTOR_INSIGHTS_AUTH_ENABLED", "true")
	t.Setenv("VECTOR_INSIGHTS_API_KEY_MASTER", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "insights", Password: "pw",
		DBName: "insights", SSLMode: "require",
	}
	assert.Equal(t, "postgres://insights:pw@db.internal:5432/insights?sslmode=require", d.DSN())
}
