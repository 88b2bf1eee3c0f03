package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/olla")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3*time.Second, cfg.OnboardingRemoteTimeout)
	assert.Equal(t, ProfileBackendPostgres, cfg.ProfileBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.StorageEnabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/olla")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SupabaseNeedsCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("PROFILE_BACKEND", "supabase")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProfileBackendSupabase, cfg.ProfileBackend)
}

func TestLoad_UnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("PROFILE_BACKEND", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestAllowedOrigins_SplitsList(t *testing.T) {
	cfg := &Config{CORSOrigins: " https://olla.app, ,https://admin.olla.app "}
	assert.Equal(t, []string{"https://olla.app", "https://admin.olla.app"}, cfg.AllowedOrigins())
}
