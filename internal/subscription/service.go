package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/metrics"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

// billingPeriod is the length of a paid period.
const billingPeriod = 30 * 24 * time.Hour

var ErrInvalidStatus = errors.New("invalid subscription status")

type Service struct {
	repo      Repository
	catalogue *Catalogue
	steps     core.StepRecorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, catalogue *Catalogue, steps core.StepRecorder, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		catalogue: catalogue,
		steps:     steps,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Plans() []Plan {
	return s.catalogue.Plans()
}

// SelectPlan starts (or replaces) the user's subscription and completes the
// plan step of onboarding. Selecting again is harmless.
func (s *Service) SelectPlan(
	ctx context.Context,
	userID, sessionID, planCode string,
) (*Subscription, onboarding.Status, error) {

	plan, err := s.catalogue.Get(planCode)
	if err != nil {
		return nil, onboarding.StatusNone, err
	}

	now := s.now()
	sub := &Subscription{
		UserID:           userID,
		PlanCode:         plan.Code,
		Status:           StatusActive,
		CurrentPeriodEnd: now.Add(billingPeriod),
	}
	if plan.TrialDays > 0 {
		sub.Status = StatusTrialing
		sub.CurrentPeriodEnd = now.AddDate(0, 0, plan.TrialDays)
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, onboarding.StatusNone, fmt.Errorf("save subscription: %w", err)
	}

	status, err := s.steps.Record(ctx, userID, sessionID, onboarding.StatusPlanSelected)
	if err != nil {
		return sub, status, err
	}
	return sub, status, nil
}

func (s *Service) ForUser(ctx context.Context, userID string) (*Subscription, error) {
	return s.repo.FindByUser(ctx, userID)
}

// LimitsForUser returns the quotas of the user's current plan.
func (s *Service) LimitsForUser(ctx context.Context, userID string) (core.PlanLimits, error) {
	sub, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return core.PlanLimits{}, core.ErrNoSubscription
	}
	if err != nil {
		return core.PlanLimits{}, err
	}
	if !Current(sub.Status) {
		return core.PlanLimits{}, core.ErrNoSubscription
	}

	plan, err := s.catalogue.Get(sub.PlanCode)
	if err != nil {
		return core.PlanLimits{}, err
	}
	return core.PlanLimits{
		PlanCode: plan.Code,
		MaxStaff: plan.MaxStaff,
		MaxTiers: plan.MaxTiers,
	}, nil
}

// ExpireOverdue is run by the worker's sweep.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordSubscriptionsExpired(int(n))
	if n > 0 {
		s.logger.Info("expired overdue subscriptions", zap.Int64("count", n))
	}
	return int(n), nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Subscription, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

type UpdateInput struct {
	PlanCode   *string
	Status     *string
	ExtendDays int
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PlanCode != nil {
		if _, err := s.catalogue.Get(*in.PlanCode); err != nil {
			return nil, err
		}
		sub.PlanCode = *in.PlanCode
	}
	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return nil, ErrInvalidStatus
		}
		sub.Status = *in.Status
	}
	if in.ExtendDays > 0 {
		base := sub.CurrentPeriodEnd
		if now := s.now(); base.Before(now) {
			base = now
		}
		sub.CurrentPeriodEnd = base.AddDate(0, 0, in.ExtendDays)
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated by admin",
		zap.String("subscription_id", sub.ID),
		zap.String("plan", sub.PlanCode),
		zap.String("status", sub.Status),
	)
	return sub, nil
}
