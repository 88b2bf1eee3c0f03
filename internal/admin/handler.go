package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// --------------------------------------------------
// GET /admin/overview
// --------------------------------------------------
func (h *Handler) Overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.logger.Error("admin overview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load overview"})
		return
	}
	c.JSON(http.StatusOK, o)
}

// --------------------------------------------------
// GET /admin/users
// --------------------------------------------------
func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset := middleware.Page(c)

	users, err := h.service.Users(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "limit": limit, "offset": offset})
}

// --------------------------------------------------
// POST /admin/users/:id/onboarding/complete
// --------------------------------------------------
func (h *Handler) CompleteOnboarding(c *gin.Context) {
	status, err := h.service.CompleteOnboarding(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrNotProfessional):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("force-complete failed", zap.String("user_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update onboarding status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": c.Param("id"), "status": status})
}
