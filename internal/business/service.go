package business

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

var (
	ErrNameRequired    = errors.New("business name is required")
	ErrInvalidWebsite  = errors.New("website must be an http(s) URL")
	ErrStorageDisabled = errors.New("logo uploads are not configured")
)

// LogoUploader stores images and returns their public URL.
type LogoUploader interface {
	UploadImage(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error)
}

type Service struct {
	repo   Repository
	steps  core.StepRecorder
	logos  LogoUploader
	logger *zap.Logger
}

// NewService wires the business service. logos may be nil when object
// storage is not configured.
func NewService(repo Repository, steps core.StepRecorder, logos LogoUploader, logger *zap.Logger) *Service {
	return &Service{repo: repo, steps: steps, logos: logos, logger: logger}
}

type Input struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
}

func (in Input) normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = strings.TrimSpace(in.Website)

	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Website != "" {
		u, err := url.Parse(in.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return in, ErrInvalidWebsite
		}
	}
	return in, nil
}

func (s *Service) save(ctx context.Context, ownerID string, in Input) (*Business, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	b := &Business{
		OwnerID:     ownerID,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Address:     in.Address,
		City:        in.City,
		Phone:       in.Phone,
		Website:     in.Website,
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, fmt.Errorf("save business: %w", err)
	}
	return b, nil
}

// SaveInfo is the business step of onboarding.
func (s *Service) SaveInfo(ctx context.Context, ownerID, sessionID string, in Input) (*Business, onboarding.Status, error) {
	b, err := s.save(ctx, ownerID, in)
	if err != nil {
		return nil, onboarding.StatusNone, err
	}

	status, err := s.steps.Record(ctx, ownerID, sessionID, onboarding.StatusBusinessInfo)
	return b, status, err
}

// UpdateSettings edits the business from the dashboard.
func (s *Service) UpdateSettings(ctx context.Context, ownerID string, in Input) (*Business, error) {
	if _, err := s.repo.FindByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.save(ctx, ownerID, in)
}

func (s *Service) Get(ctx context.Context, ownerID string) (*Business, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

func (s *Service) UploadLogo(ctx context.Context, ownerID string, file *multipart.FileHeader) (string, error) {
	if s.logos == nil {
		return "", ErrStorageDisabled
	}

	b, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}

	logoURL, err := s.logos.UploadImage(ctx, "businesses/"+b.ID, file)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateLogo(ctx, ownerID, logoURL); err != nil {
		return "", err
	}

	s.logger.Info("business logo updated", zap.String("business_id", b.ID))
	return logoURL, nil
}

// BusinessIDForOwner implements core.BusinessReader.
func (s *Service) BusinessIDForOwner(ctx context.Context, ownerID string) (string, error) {
	b, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return "", core.ErrNoBusiness
	}
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Business, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
