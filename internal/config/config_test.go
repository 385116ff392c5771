package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "SERVER_PORT", "APP_ENV", "LOG_LEVEL", "JWT_SECRET", "JWT_TTL",
		"ALLOWED_ORIGINS", "ASSET_DIR", "UPLOAD_DIR", "PO_TIMEZONE", "REQUIRE_SIGNATURE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "./static/images", cfg.PDF.AssetDir)
	assert.Equal(t, "./media", cfg.Storage.UploadDir)
	assert.True(t, cfg.PDF.RequireSignature)
	assert.Equal(t, "America/New_York", cfg.PDF.Location.String())
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("REQUIRE_SIGNATURE", "false")
	t.Setenv("PO_TIMEZONE", "UTC")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.False(t, cfg.PDF.RequireSignature)
	assert.Equal(t, time.UTC, cfg.PDF.Location)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Run("bad timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PO_TIMEZONE", "Mars/Olympus_Mons")
		_, err := fromEnv()
		assert.Error(t, err)
	})
	t.Run("bad bool", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REQUIRE_SIGNATURE", "sometimes")
		_, err := fromEnv()
		assert.ErrorContains(t, err, "REQUIRE_SIGNATURE")
	})
	t.Run("production without secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		_, err := fromEnv()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}
