package loyalty

import (
	"context"
	"errors"
)

var (
	ErrProgramNotFound    = errors.New("loyalty program not found")
	ErrTierNotFound       = errors.New("tier not found")
	ErrDuplicateThreshold = errors.New("a tier with this threshold already exists")
)

type Repository interface {
	UpsertProgram(ctx context.Context, p *Program) error
	FindProgramByBusiness(ctx context.Context, businessID string) (*Program, error)
	// ListTiers returns the program's tiers ordered by threshold.
	ListTiers(ctx context.Context, programID string) ([]*Tier, error)
	AddTier(ctx context.Context, t *Tier) error
	// ReplaceTiers swaps the whole tier list atomically.
	ReplaceTiers(ctx context.Context, programID string, tiers []*Tier) error
	DeleteTier(ctx context.Context, programID, tierID string) error
	CountTiers(ctx context.Context, programID string) (int, error)
}
