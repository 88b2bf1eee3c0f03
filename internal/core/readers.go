// Package core holds the narrow interfaces domain packages use to read
// from one another without importing each other.
package core

import (
	"context"
	"errors"

	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

// ErrNoBusiness is returned when the owner has not finished the business step.
var ErrNoBusiness = errors.New("business not set up")

// ErrNoSubscription is returned when the user has no current subscription.
var ErrNoSubscription = errors.New("no active subscription")

// BusinessReader resolves the business a professional owns.
type BusinessReader interface {
	BusinessIDForOwner(ctx context.Context, ownerID string) (string, error)
}

// PlanLimits are the quotas of the owner's current plan. Zero means
// unlimited.
type PlanLimits struct {
	PlanCode string
	MaxStaff int
	MaxTiers int
}

type LimitsReader interface {
	LimitsForUser(ctx context.Context, userID string) (PlanLimits, error)
}

// StepRecorder marks an onboarding step done once its action succeeded.
type StepRecorder interface {
	Record(ctx context.Context, userID, sessionID string, to onboarding.Status) (onboarding.Status, error)
}
