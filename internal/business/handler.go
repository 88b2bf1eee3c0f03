package business

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
	"github.com/OlaWorkspace/olla-website-sub000/internal/storage"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func isValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidWebsite)
}

// --------------------------------------------------
// GET /onboarding/business
// --------------------------------------------------
func (h *Handler) GetInfoStep(c *gin.Context) {
	resp := gin.H{"step": "business"}

	b, err := h.service.Get(c.Request.Context(), c.GetString(middleware.KeyUserID))
	switch {
	case err == nil:
		resp["business"] = b
	case !errors.Is(err, ErrNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load business"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --------------------------------------------------
// POST /onboarding/business
// --------------------------------------------------
func (h *Handler) SaveInfo(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := c.GetString(middleware.KeyUserID)
	b, status, err := h.service.SaveInfo(c.Request.Context(), userID, c.GetString(middleware.KeySessionID), in)
	switch {
	case isValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil && b != nil:
		h.logger.Error("recording business step failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not save progress, please retry"})
		return
	case err != nil:
		h.logger.Error("save business failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save business"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": b,
		"status":   status,
		"redirect": onboarding.CanonicalPath(status),
	})
}

// --------------------------------------------------
// GET /dashboard/business
// --------------------------------------------------
func (h *Handler) GetSettings(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.GetString(middleware.KeyUserID))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load business"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// --------------------------------------------------
// PUT /dashboard/business
// --------------------------------------------------
func (h *Handler) UpdateSettings(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	b, err := h.service.UpdateSettings(c.Request.Context(), c.GetString(middleware.KeyUserID), in)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case isValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update business"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// --------------------------------------------------
// POST /dashboard/business/logo (multipart, field "logo")
// --------------------------------------------------
func (h *Handler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}

	logoURL, err := h.service.UploadLogo(c.Request.Context(), c.GetString(middleware.KeyUserID), file)
	switch {
	case errors.Is(err, ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("logo upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": logoURL})
}

// --------------------------------------------------
// GET /admin/businesses
// --------------------------------------------------
func (h *Handler) AdminList(c *gin.Context) {
	limit, offset := middleware.Page(c)

	list, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list businesses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": list, "limit": limit, "offset": offset})
}
