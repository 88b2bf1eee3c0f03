package admin

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

var ErrNotProfessional = errors.New("user is not a professional account")

type UserDirectory interface {
	Me(ctx context.Context, userID string) (*auth.User, error)
	List(ctx context.Context, limit, offset int) ([]*auth.User, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

type BusinessCounter interface {
	Count(ctx context.Context) (int, error)
}

type SubscriptionCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type Service struct {
	users         UserDirectory
	businesses    BusinessCounter
	subscriptions SubscriptionCounter
	steps         core.StepRecorder
	logger        *zap.Logger
}

func NewService(
	users UserDirectory,
	businesses BusinessCounter,
	subscriptions SubscriptionCounter,
	steps core.StepRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:         users,
		businesses:    businesses,
		subscriptions: subscriptions,
		steps:         steps,
		logger:        logger,
	}
}

type Overview struct {
	UsersByRole           map[string]int `json:"users_by_role"`
	Businesses            int            `json:"businesses"`
	SubscriptionsByStatus map[string]int `json:"subscriptions_by_status"`
}

// Overview gathers the back-office counters concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.users.CountByRole(ctx)
		out.UsersByRole = counts
		return err
	})
	g.Go(func() error {
		n, err := s.businesses.Count(ctx)
		out.Businesses = n
		return err
	})
	g.Go(func() error {
		counts, err := s.subscriptions.CountByStatus(ctx)
		out.SubscriptionsByStatus = counts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Users(ctx context.Context, limit, offset int) ([]*auth.User, error) {
	return s.users.List(ctx, limit, offset)
}

// CompleteOnboarding moves a professional straight to COMPLETED, e.g. for
// accounts set up by support. Status only ever moves forward, so there is
// no way to send a user back to an earlier step.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string) (onboarding.Status, error) {
	user, err := s.users.Me(ctx, userID)
	if err != nil {
		return onboarding.StatusNone, err
	}
	if !user.Professional {
		return onboarding.StatusNone, ErrNotProfessional
	}

	status, err := s.steps.Record(ctx, userID, "", onboarding.StatusCompleted)
	if err != nil {
		return status, err
	}

	s.logger.Info("onboarding force-completed by admin", zap.String("user_id", userID))
	return status, nil
}
