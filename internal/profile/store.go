package profile

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OlaWorkspace/olla-website-sub000/internal/config"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

// Store is the remote onboarding record plus the operator's ability to
// mark accounts professional.
type Store interface {
	onboarding.ProfileStore
	SetProfessional(ctx context.Context, userID string, professional bool) error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SupabaseStore)(nil)
)

// NewStore picks the remote onboarding record configured by PROFILE_BACKEND.
func NewStore(cfg *config.Config, pool *pgxpool.Pool) (Store, error) {
	if cfg.ProfileBackend == config.ProfileBackendSupabase {
		return NewSupabaseStore(SupabaseConfig{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseServiceKey,
		})
	}
	return NewPostgresStore(pool), nil
}
