package staff

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("staff member not found")
	ErrDuplicate = errors.New("staff member already exists")
)

type Repository interface {
	Add(ctx context.Context, m *Member) error
	ListByBusiness(ctx context.Context, businessID string) ([]*Member, error)
	Delete(ctx context.Context, businessID, id string) error
	CountActive(ctx context.Context, businessID string) (int, error)
}
