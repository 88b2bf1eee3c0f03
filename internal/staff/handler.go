package staff

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/core"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidMember), errors.Is(err, ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicate), errors.Is(err, core.ErrNoBusiness):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStaffLimit):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNoSubscription):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		h.logger.Error("staff request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "staff request failed"})
	}
}

// --------------------------------------------------
// GET /dashboard/staff
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	members, err := h.service.List(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": members})
}

// --------------------------------------------------
// POST /dashboard/staff
// --------------------------------------------------
func (h *Handler) Add(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	m, err := h.service.Add(c.Request.Context(), c.GetString(middleware.KeyUserID), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// --------------------------------------------------
// DELETE /dashboard/staff/:id
// --------------------------------------------------
func (h *Handler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.GetString(middleware.KeyUserID), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
