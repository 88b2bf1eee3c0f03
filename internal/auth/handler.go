package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie carries the token for page-data routes that browsers
// navigate to directly.
const SessionCookie = "olla_session"

// SessionCleaner drops per-session state on logout.
type SessionCleaner interface {
	Forget(ctx context.Context, sessionID string) error
}

type Handler struct {
	service  *Service
	tokens   *Tokens
	sessions SessionCleaner
	secure   bool
	logger   *zap.Logger
}

func NewHandler(service *Service, tokens *Tokens, sessions SessionCleaner, secureCookies bool, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		tokens:   tokens,
		sessions: sessions,
		secure:   secureCookies,
		logger:   logger,
	}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Professional bool   `json:"professional"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Professional: req.Professional,
	})
	switch {
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	token, claims, err := h.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", h.secure, true)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": claims.ExpiresAt,
		"user":       user,
	})
}

// Logout clears the session's onboarding cache. The remote record is kept.
func (h *Handler) Logout(c *gin.Context) {
	if sid := c.GetString("sessionID"); sid != "" {
		if err := h.sessions.Forget(c.Request.Context(), sid); err != nil {
			h.logger.Warn("clearing session state failed", zap.String("session_id", sid), zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secure, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
