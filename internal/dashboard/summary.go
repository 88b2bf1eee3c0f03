// Package dashboard serves the landing summary of the professional
// dashboard.
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OlaWorkspace/olla-website-sub000/internal/business"
	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/loyalty"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/staff"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

type BusinessSource interface {
	Get(ctx context.Context, ownerID string) (*business.Business, error)
}

type ProgramSource interface {
	GetProgram(ctx context.Context, ownerID string) (*loyalty.Program, error)
}

type SubscriptionSource interface {
	ForUser(ctx context.Context, userID string) (*subscription.Subscription, error)
}

type StaffSource interface {
	List(ctx context.Context, ownerID string) ([]*staff.Member, error)
}

type Summary struct {
	Business     *business.Business         `json:"business"`
	Program      *loyalty.Program           `json:"program"`
	Subscription *subscription.Subscription `json:"subscription"`
	StaffCount   int                        `json:"staff_count"`
}

type Handler struct {
	businesses    BusinessSource
	programs      ProgramSource
	subscriptions SubscriptionSource
	staff         StaffSource
	logger        *zap.Logger
}

func NewHandler(
	businesses BusinessSource,
	programs ProgramSource,
	subscriptions SubscriptionSource,
	staff StaffSource,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		businesses:    businesses,
		programs:      programs,
		subscriptions: subscriptions,
		staff:         staff,
		logger:        logger,
	}
}

// Load fetches every section concurrently. Missing sections are left
// empty rather than failing the whole summary.
func (h *Handler) Load(ctx context.Context, ownerID string) (*Summary, error) {
	var s Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := h.businesses.Get(ctx, ownerID)
		if errors.Is(err, business.ErrNotFound) {
			return nil
		}
		s.Business = b
		return err
	})
	g.Go(func() error {
		p, err := h.programs.GetProgram(ctx, ownerID)
		if err != nil && !errors.Is(err, loyalty.ErrProgramNotFound) {
			return ignoreMissingBusiness(err)
		}
		s.Program = p
		return nil
	})
	g.Go(func() error {
		sub, err := h.subscriptions.ForUser(ctx, ownerID)
		if errors.Is(err, subscription.ErrNotFound) {
			return nil
		}
		s.Subscription = sub
		return err
	})
	g.Go(func() error {
		members, err := h.staff.List(ctx, ownerID)
		if err != nil {
			return ignoreMissingBusiness(err)
		}
		for _, m := range members {
			if m.Active {
				s.StaffCount++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

func ignoreMissingBusiness(err error) error {
	if errors.Is(err, core.ErrNoBusiness) {
		return nil
	}
	return err
}

// --------------------------------------------------
// GET /dashboard
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	s, err := h.Load(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		h.logger.Error("dashboard summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, s)
}
