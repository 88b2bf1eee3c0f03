package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// --------------------------------------------------
// GET /plans
// --------------------------------------------------
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.service.Plans()})
}

// --------------------------------------------------
// GET /onboarding/plan
// --------------------------------------------------
func (h *Handler) GetPlanStep(c *gin.Context) {
	resp := gin.H{
		"step":  "plan",
		"plans": h.service.Plans(),
	}

	sub, err := h.service.ForUser(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err == nil {
		resp["selected"] = sub.PlanCode
	}
	c.JSON(http.StatusOK, resp)
}

// --------------------------------------------------
// POST /onboarding/plan
// --------------------------------------------------
type selectPlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

func (h *Handler) SelectPlan(c *gin.Context) {
	var req selectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_code is required"})
		return
	}

	userID := c.GetString(middleware.KeyUserID)
	sub, status, err := h.service.SelectPlan(
		c.Request.Context(),
		userID,
		c.GetString(middleware.KeySessionID),
		req.PlanCode,
	)
	switch {
	case errors.Is(err, ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil && sub != nil:
		// Subscription saved, progress not. Retrying is safe.
		h.logger.Error("recording plan step failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not save progress, please retry"})
		return
	case err != nil:
		h.logger.Error("select plan failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"status":       status,
		"redirect":     onboarding.CanonicalPath(status),
	})
}

// --------------------------------------------------
// GET /dashboard/subscription
// --------------------------------------------------
func (h *Handler) GetCurrent(c *gin.Context) {
	sub, err := h.service.ForUser(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}

	plan, _ := h.service.catalogue.Get(sub.PlanCode)
	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"plan":         plan,
	})
}

// --------------------------------------------------
// GET /admin/subscriptions
// --------------------------------------------------
func (h *Handler) AdminList(c *gin.Context) {
	limit, offset := middleware.Page(c)

	subs, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "limit": limit, "offset": offset})
}

// --------------------------------------------------
// PATCH /admin/subscriptions/:id
// --------------------------------------------------
type updateRequest struct {
	PlanCode   *string `json:"plan_code"`
	Status     *string `json:"status"`
	ExtendDays int     `json:"extend_days"`
}

func (h *Handler) AdminUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ExtendDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "extend_days must be positive"})
		return
	}

	sub, err := h.service.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		PlanCode:   req.PlanCode,
		Status:     req.Status,
		ExtendDays: req.ExtendDays,
	})
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrUnknownPlan), errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}
