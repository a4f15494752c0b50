package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, int64(65536), cfg.MaxBodyBytes)
	assert.Equal(t, 0, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.RateLimitTrustProxy)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_URL", "user:password@tcp(localhost:3306)/board")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.StoreDriver)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.RateLimitTrustProxy)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"missing db url", map[string]string{"STORE_DRIVER": "postgres", "DB_URL": ""}, "DB_URL"},
		{"zero body cap", map[string]string{"STORE_DRIVER": "memory", "MAX_BODY_BYTES": "0"}, "MAX_BODY_BYTES"},
		{"negative rate", map[string]string{"STORE_DRIVER": "memory", "RATE_LIMIT_REQUESTS": "-1"}, "RATE_LIMIT_REQUESTS"},
		{"bad window", map[string]string{"STORE_DRIVER": "memory", "RATE_LIMIT_REQUESTS": "5", "RATE_LIMIT_WINDOW": "0s"}, "RATE_LIMIT_WINDOW"},
		{"bad level", map[string]string{"STORE_DRIVER": "memory", "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"unparseable int", map[string]string{"STORE_DRIVER": "memory", "MAX_BODY_BYTES": "lots"}, "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
