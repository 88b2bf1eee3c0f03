package onboarding

import (
	"context"
	"errors"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the remote record the guard reads: the professional flag and
// the authoritative onboarding status.
type Profile struct {
	UserID       string
	Role         string
	Professional bool
	// Status is nil when the column has never been written.
	Status *string
}

// ProfileStore is the authoritative remote record.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// AdvanceStatus moves the record to `to` unless it is already at or past
	// it, and returns the stored status afterwards.
	AdvanceStatus(ctx context.Context, userID string, to Status) (Status, error)
}
