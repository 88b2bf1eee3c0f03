package loyalty

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

var (
	ErrInvalidProgram = errors.New("program name and a positive points_per_visit are required")
	ErrInvalidTier    = errors.New("tier name, reward and a positive threshold are required")
	ErrTierLimit      = errors.New("tier limit of current plan reached")
	ErrLastTier       = errors.New("a program needs at least one tier")

	ErrProgressNotSaved = errors.New("could not save progress, please retry")
)

type Service struct {
	repo       Repository
	businesses core.BusinessReader
	limits     core.LimitsReader
	steps      core.StepRecorder
	logger     *zap.Logger
}

func NewService(
	repo Repository,
	businesses core.BusinessReader,
	limits core.LimitsReader,
	steps core.StepRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		businesses: businesses,
		limits:     limits,
		steps:      steps,
		logger:     logger,
	}
}

type TierInput struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Reward    string `json:"reward"`
}

func (in TierInput) tier(programID string, position int) (*Tier, error) {
	name := strings.TrimSpace(in.Name)
	reward := strings.TrimSpace(in.Reward)
	if name == "" || reward == "" || in.Threshold <= 0 {
		return nil, ErrInvalidTier
	}
	return &Tier{
		ProgramID: programID,
		Name:      name,
		Threshold: in.Threshold,
		Reward:    reward,
		Position:  position,
	}, nil
}

type ProgramInput struct {
	Name           string      `json:"name"`
	PointsPerVisit int         `json:"points_per_visit"`
	Tiers          []TierInput `json:"tiers"`
}

func (s *Service) checkTierLimit(ctx context.Context, ownerID string, total int) error {
	limits, err := s.limits.LimitsForUser(ctx, ownerID)
	if err != nil {
		return err
	}
	if limits.MaxTiers > 0 && total > limits.MaxTiers {
		return ErrTierLimit
	}
	return nil
}

// SaveProgram creates or renames the owner's program. When tiers are
// given they replace the existing ones, and having at least one tier
// completes the loyalty step of onboarding; the returned status is
// StatusNone when no step was recorded. Resubmitting the same form is
// harmless.
func (s *Service) SaveProgram(
	ctx context.Context,
	ownerID, sessionID string,
	in ProgramInput,
) (*Program, onboarding.Status, error) {

	businessID, err := s.businesses.BusinessIDForOwner(ctx, ownerID)
	if err != nil {
		return nil, onboarding.StatusNone, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || in.PointsPerVisit <= 0 {
		return nil, onboarding.StatusNone, ErrInvalidProgram
	}

	var tiers []*Tier
	for i, ti := range in.Tiers {
		t, err := ti.tier("", i+1)
		if err != nil {
			return nil, onboarding.StatusNone, err
		}
		tiers = append(tiers, t)
	}
	if len(tiers) > 0 {
		if err := s.checkTierLimit(ctx, ownerID, len(tiers)); err != nil {
			return nil, onboarding.StatusNone, err
		}
	}

	p := &Program{BusinessID: businessID, Name: name, PointsPerVisit: in.PointsPerVisit}
	if err := s.repo.UpsertProgram(ctx, p); err != nil {
		return nil, onboarding.StatusNone, fmt.Errorf("save program: %w", err)
	}

	if len(tiers) > 0 {
		if err := s.repo.ReplaceTiers(ctx, p.ID, tiers); err != nil {
			return nil, onboarding.StatusNone, err
		}
	}

	p.Tiers, err = s.repo.ListTiers(ctx, p.ID)
	if err != nil {
		return nil, onboarding.StatusNone, err
	}
	if len(p.Tiers) == 0 {
		return p, onboarding.StatusNone, nil
	}

	status, err := s.steps.Record(ctx, ownerID, sessionID, onboarding.StatusLoyaltySetup)
	return p, status, err
}

func (s *Service) program(ctx context.Context, ownerID string) (*Program, error) {
	businessID, err := s.businesses.BusinessIDForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindProgramByBusiness(ctx, businessID)
}

// GetProgram returns the owner's program with its tiers.
func (s *Service) GetProgram(ctx context.Context, ownerID string) (*Program, error) {
	p, err := s.program(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	p.Tiers, err = s.repo.ListTiers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddTier appends a tier. The program's first tier completes the loyalty
// step of onboarding; later tiers leave the status alone. If the step
// cannot be recorded the first tier is removed again.
func (s *Service) AddTier(ctx context.Context, ownerID, sessionID string, in TierInput) (*Tier, error) {
	p, err := s.program(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountTiers(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	t, err := in.tier(p.ID, count+1)
	if err != nil {
		return nil, err
	}
	if err := s.checkTierLimit(ctx, ownerID, count+1); err != nil {
		return nil, err
	}

	if err := s.repo.AddTier(ctx, t); err != nil {
		return nil, err
	}

	if count == 0 {
		if _, err := s.steps.Record(ctx, ownerID, sessionID, onboarding.StatusLoyaltySetup); err != nil {
			// Undo so that retrying the same request records the step.
			if delErr := s.repo.DeleteTier(ctx, p.ID, t.ID); delErr != nil {
				s.logger.Error("rolling back first tier failed", zap.String("tier_id", t.ID), zap.Error(delErr))
			}
			return nil, fmt.Errorf("%w: %v", ErrProgressNotSaved, err)
		}
	}
	return t, nil
}

func (s *Service) DeleteTier(ctx context.Context, ownerID, tierID string) error {
	p, err := s.program(ctx, ownerID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountTiers(ctx, p.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastTier
	}
	return s.repo.DeleteTier(ctx, p.ID, tierID)
}
