package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", SecretLength)))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret())
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Greenhand", cfg.AppName)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 5, cfg.LoginAttemptsPerMinute)
	assert.False(t, cfg.Kakao.Enabled())
	assert.Equal(t, []string{"profile_nickname", "account_email"}, cfg.Kakao.Scopes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret())
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("KAKAO_CLIENT_ID", "client")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.Kakao.Enabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString([]byte("short")))
	t.Setenv("APP_ENV", "development")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 bytes")
}

func TestLoadRequiresStoresOutsideDev(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret())
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/greenhand")
	t.Setenv("REDIS_URL", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}
