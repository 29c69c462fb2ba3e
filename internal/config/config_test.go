package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("IsProduction checks environment", func(t *testing.T) {
		assert.True(t, (&Config{Environment: "production"}).IsProduction())
		assert.False(t, (&Config{Environment: "development"}).IsProduction())
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"PORT":           os.Getenv("PORT"),
		"DATABASE_URL":   os.Getenv("DATABASE_URL"),
		"REDIS_URL":      os.Getenv("REDIS_URL"),
		"SESSION_SECRET": os.Getenv("SESSION_SECRET"),
		"LOG_LEVEL":      os.Getenv("LOG_LEVEL"),
		"ENVIRONMENT":    os.Getenv("ENVIRONMENT"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("ENVIRONMENT")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "development", cfg.Environment)
	})

	t.Run("fails without required values", func(t *testing.T) {
		os.Unsetenv("DATABASE_URL")
		os.Setenv("REDIS_URL", "redis://localhost:6379")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("production rejects short session secret", func(t *testing.T) {
		cfg := &Config{Environment: "production", SessionSecret: "short"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects known weak secret", func(t *testing.T) {
		cfg := &Config{Environment: "production", SessionSecret: "change-me"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("development accepts empty secret", func(t *testing.T) {
		cfg := &Config{Environment: "development"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("production accepts strong secret", func(t *testing.T) {
		cfg := &Config{
			Environment:   "production",
			RedisURL:      "rediss://example:6379",
			SessionSecret: "yJ2mPqR8vT4wX6zB1cD3eF5gH7jK9lN0",
		}
		assert.NoError(t, cfg.Validate())
	})
}
