package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_SESSION_TTL_HOURS", "")
	t.Setenv("VETTING_STRICT_TRANSITIONS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 8*time.Hour, cfg.Auth.VettingTTL())
	assert.False(t, cfg.Vetting.StrictTransitions)
	assert.Equal(t, "vetting.events", cfg.Events.RedisChannel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_VETTING_TTL_HOURS", "4")
	t.Setenv("VETTING_STRICT_TRANSITIONS", "true")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 4*time.Hour, cfg.Auth.VettingTTL())
	assert.True(t, cfg.Vetting.StrictTransitions)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
}
