package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_PopulatesNestedFields(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SIGN_KEY", "env-secret")
	t.Setenv("AUTH_LOCKOUT_THRESHOLD", "7")
	t.Setenv("AUTH_SESSION_DURATION", "48h")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env/db")
	t.Setenv("STORAGE_REDIS_ADDRESS", "localhost:6379")
	t.Setenv("SERVER_ADDRESS", "localhost:9999")
	t.Setenv("WORKERS_SWEEP_INTERVAL", "30m")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "env-secret", cfg.Auth.TokenSignKey)
	assert.Equal(t, 7, cfg.Auth.LockoutThreshold)
	assert.Equal(t, 48*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, "postgres://env/db", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Address)
	assert.Equal(t, "localhost:9999", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Minute, cfg.Workers.SweepInterval)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("AUTH_SESSION_DURATION", "not-a-duration")

	cfg := &StructuredConfig{}
	assert.Error(t, parseEnv(cfg))
}
