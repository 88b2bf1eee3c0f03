package subscription

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("subscription not found")

type Repository interface {
	// Upsert creates the user's subscription or replaces its plan, status
	// and period.
	Upsert(ctx context.Context, sub *Subscription) error
	FindByUser(ctx context.Context, userID string) (*Subscription, error)
	FindByID(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, limit, offset int) ([]*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	// ExpireOverdue moves every current subscription whose period ended
	// before now to expired and returns how many changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}
