package business

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("business not found")

type Repository interface {
	// Upsert creates the owner's business or overwrites its details. The
	// logo is left alone.
	Upsert(ctx context.Context, b *Business) error
	FindByOwner(ctx context.Context, ownerID string) (*Business, error)
	UpdateLogo(ctx context.Context, ownerID, logoURL string) error
	List(ctx context.Context, limit, offset int) ([]*Business, error)
	Count(ctx context.Context) (int, error)
}
