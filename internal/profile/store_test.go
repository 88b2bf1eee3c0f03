package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlaWorkspace/olla-website-sub000/internal/config"
)

func TestNewStore_Backends(t *testing.T) {
	store, err := NewStore(&config.Config{ProfileBackend: config.ProfileBackendPostgres}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PostgresStore{}, store)

	store, err = NewStore(&config.Config{
		ProfileBackend:     config.ProfileBackendSupabase,
		SupabaseURL:        "https://example.supabase.co",
		SupabaseServiceKey: "service-key",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStore{}, store)

	_, err = NewStore(&config.Config{ProfileBackend: config.ProfileBackendSupabase}, nil)
	assert.Error(t, err)
}
