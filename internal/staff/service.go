package staff

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
)

var (
	ErrInvalidMember = errors.New("a valid email and a name are required")
	ErrInvalidRole   = errors.New("role must be manager or staff")
	ErrStaffLimit    = errors.New("staff limit of current plan reached")
)

type Service struct {
	repo       Repository
	businesses core.BusinessReader
	limits     core.LimitsReader
	logger     *zap.Logger
}

func NewService(repo Repository, businesses core.BusinessReader, limits core.LimitsReader, logger *zap.Logger) *Service {
	return &Service{repo: repo, businesses: businesses, limits: limits, logger: logger}
}

type Input struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (s *Service) List(ctx context.Context, ownerID string) ([]*Member, error) {
	businessID, err := s.businesses.BusinessIDForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByBusiness(ctx, businessID)
}

// Add invites a member, bounded by the plan's staff limit.
func (s *Service) Add(ctx context.Context, ownerID string, in Input) (*Member, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if _, err := mail.ParseAddress(email); err != nil || name == "" {
		return nil, ErrInvalidMember
	}

	role := in.Role
	if role == "" {
		role = RoleStaff
	}
	if role != RoleStaff && role != RoleManager {
		return nil, ErrInvalidRole
	}

	businessID, err := s.businesses.BusinessIDForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	limits, err := s.limits.LimitsForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if limits.MaxStaff > 0 {
		n, err := s.repo.CountActive(ctx, businessID)
		if err != nil {
			return nil, err
		}
		if n >= limits.MaxStaff {
			return nil, ErrStaffLimit
		}
	}

	m := &Member{
		BusinessID: businessID,
		Email:      email,
		Name:       name,
		Role:       role,
		Active:     true,
	}
	if err := s.repo.Add(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("staff member added",
		zap.String("business_id", businessID),
		zap.String("member_id", m.ID),
	)
	return m, nil
}

func (s *Service) Remove(ctx context.Context, ownerID, memberID string) error {
	businessID, err := s.businesses.BusinessIDForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, businessID, memberID)
}
