package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "ripple", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:          "8080",
		SessionSecret: "change-me-in-production",
		SessionTTL:    time.Hour,
		DBPassword:    "password",
		Env:           "development",
	}

	t.Run("development accepts defaults", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := base
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive TTL", func(t *testing.T) {
		cfg := base
		cfg.SessionTTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects default secret", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects short secret", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.SessionSecret = "short"
		cfg.DBPassword = "a-strong-password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects weak db password", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production with strong settings", func(t *testing.T) {
		cfg := base
		cfg.Env = "production"
		cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
		cfg.DBPassword = "a-strong-password"
		assert.NoError(t, cfg.Validate())
	})
}
