package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.DefaultModel)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Providers.Claude.DefaultModel)
	assert.Equal(t, "gemini-2.0-flash", cfg.Providers.Gemini.DefaultModel)
	assert.Equal(t, 4096, cfg.Generation.MaxOutputTokens)
	assert.Equal(t, 0.2, cfg.Generation.Temperature)
	assert.Equal(t, 0, cfg.Batch.JobTimeoutSecs)
	assert.Equal(t, int64(25), cfg.Upload.MaxFileSizeMB)
	assert.Empty(t, cfg.S3.Bucket)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("BRIEFER_SERVER_PORT", ":9999")
	t.Setenv("BRIEFER_DB_HOST", "db.internal")
	t.Setenv("BRIEFER_PROVIDERS_OPENAI_API_KEY", "sk-live")
	t.Setenv("BRIEFER_PROVIDERS_GEMINI_DEFAULT_MODEL", "gemini-2.5-pro")
	t.Setenv("BRIEFER_BATCH_JOB_TIMEOUT_SECS", "300")
	t.Setenv("BRIEFER_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "sk-live", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Providers.Gemini.DefaultModel)
	assert.Equal(t, 300, cfg.Batch.JobTimeoutSecs)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadUsesPlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestProvidersForLookup(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotNil(t, cfg.Providers.For("openai"))
	assert.NotNil(t, cfg.Providers.For("claude"))
	assert.NotNil(t, cfg.Providers.For("gemini"))
	assert.Nil(t, cfg.Providers.For("mystery"))
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5433/n?sslmode=disable", d.DSN())
}
