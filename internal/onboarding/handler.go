package onboarding

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

type Handler struct {
	guard    *Guard
	recorder *Recorder
	bus      Bus
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler builds the onboarding API. checkOrigin may be nil, in which
// case gorilla's same-origin check applies.
func NewHandler(guard *Guard, recorder *Recorder, bus Bus, checkOrigin func(*http.Request) bool, logger *zap.Logger) *Handler {
	return &Handler{
		guard:    guard,
		recorder: recorder,
		bus:      bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// -----------------------------
// GUARD (for clients that route on their own)
// -----------------------------
type guardRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *Handler) CheckGuard(c *gin.Context) {
	var req guardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	d, err := h.guard.Check(c.Request.Context(), IdentityFrom(c), req.Path)
	if errors.Is(err, ErrSuperseded) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.Status(499)
		return
	}

	c.JSON(http.StatusOK, d)
}

// -----------------------------
// STATUS
// -----------------------------
func (h *Handler) GetStatus(c *gin.Context) {
	id := IdentityFrom(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	d, err := h.guard.Resolve(c.Request.Context(), id, "")
	if err != nil {
		c.Status(499)
		return
	}
	if d.Reason == ReasonNotProfessional {
		c.JSON(http.StatusForbidden, gin.H{"error": "onboarding is only for professional accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    d.Effective,
		"completed": d.Effective == StatusCompleted,
		"next":      CanonicalPath(d.Effective),
	})
}

// -----------------------------
// WELCOME (last step)
// -----------------------------
func (h *Handler) GetWelcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"step":   "welcome",
		"status": StatusFrom(c),
	})
}

func (h *Handler) CompleteWelcome(c *gin.Context) {
	id := IdentityFrom(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.recorder.Record(c.Request.Context(), id.UserID, id.SessionID, StatusCompleted)
	if err != nil {
		h.logger.Error("completing onboarding failed", zap.String("user_id", id.UserID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not save progress, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"redirect": PathDashboard,
	})
}

// -----------------------------
// EVENTS (websocket)
// -----------------------------

// Events pushes the caller's StatusChanged events so an open client can
// re-run the guard as soon as a step lands, including steps finished in
// another tab.
func (h *Handler) Events(c *gin.Context) {
	id := IdentityFrom(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	events, cancel, err := h.bus.Subscribe(ctx, id.UserID)
	if err != nil {
		h.logger.Error("subscribing to onboarding events failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events unavailable"})
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("event write failed", zap.String("user_id", id.UserID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
