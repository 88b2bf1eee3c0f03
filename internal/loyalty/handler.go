package loyalty

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
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

// writeError maps service errors to responses. It reports whether err was
// handled.
func (h *Handler) writeError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrProgressNotSaved):
		h.logger.Error("recording loyalty step failed", zap.String("user_id", c.GetString(middleware.KeyUserID)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrProgressNotSaved.Error()})
	case errors.Is(err, core.ErrNoBusiness):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNoSubscription):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProgramNotFound), errors.Is(err, ErrTierNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidProgram), errors.Is(err, ErrInvalidTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrTierLimit), errors.Is(err, ErrLastTier), errors.Is(err, ErrDuplicateThreshold):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("loyalty request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loyalty request failed"})
	}
	return true
}

// --------------------------------------------------
// GET /onboarding/loyalty, GET /dashboard/loyalty
// --------------------------------------------------
func (h *Handler) GetProgram(c *gin.Context) {
	p, err := h.service.GetProgram(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if errors.Is(err, ErrProgramNotFound) {
		c.JSON(http.StatusOK, gin.H{"program": nil})
		return
	}
	if h.writeError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": p})
}

// --------------------------------------------------
// POST /onboarding/loyalty, PUT /dashboard/loyalty
// --------------------------------------------------
func (h *Handler) SaveProgram(c *gin.Context) {
	var in ProgramInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := c.GetString(middleware.KeyUserID)
	p, status, err := h.service.SaveProgram(c.Request.Context(), userID, c.GetString(middleware.KeySessionID), in)
	if err != nil && p != nil {
		h.logger.Error("recording loyalty step failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not save progress, please retry"})
		return
	}
	if h.writeError(c, err) {
		return
	}

	resp := gin.H{"program": p}
	if status != onboarding.StatusNone {
		resp["status"] = status
		resp["redirect"] = onboarding.CanonicalPath(status)
	}
	c.JSON(http.StatusOK, resp)
}

// --------------------------------------------------
// POST /onboarding/loyalty/tiers, POST /dashboard/loyalty/tiers
// --------------------------------------------------
func (h *Handler) AddTier(c *gin.Context) {
	var in TierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.AddTier(c.Request.Context(), c.GetString(middleware.KeyUserID), c.GetString(middleware.KeySessionID), in)
	if h.writeError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, t)
}

// --------------------------------------------------
// DELETE /dashboard/loyalty/tiers/:id
// --------------------------------------------------
func (h *Handler) DeleteTier(c *gin.Context) {
	err := h.service.DeleteTier(c.Request.Context(), c.GetString(middleware.KeyUserID), c.Param("id"))
	if h.writeError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
