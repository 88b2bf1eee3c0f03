package onboarding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/metrics"
)

// Recorder marks an onboarding step as done once its action has succeeded.
type Recorder struct {
	profiles ProfileStore
	cache    Cache
	bus      Bus
	logger   *zap.Logger
}

func NewRecorder(profiles ProfileStore, cache Cache, bus Bus, logger *zap.Logger) *Recorder {
	return &Recorder{profiles: profiles, cache: cache, bus: bus, logger: logger}
}

// Record writes the session cache first so the user is not held back by a
// slow remote write, then advances the remote record and announces the
// change. Neither holder ever moves backwards. The returned status is the
// user's effective status afterwards.
func (r *Recorder) Record(ctx context.Context, userID, sessionID string, to Status) (Status, error) {
	effective := to

	if sessionID != "" {
		raw, err := r.cache.Get(ctx, sessionID)
		if err != nil {
			r.logger.Warn("session status cache read failed",
				zap.String("user_id", userID), zap.Error(err))
		}
		effective = Max(ParseStatus(raw), to)
		if err := r.cache.Set(ctx, sessionID, effective); err != nil {
			r.logger.Warn("session status cache write failed",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	stored, err := r.profiles.AdvanceStatus(ctx, userID, to)
	if err != nil {
		return effective, fmt.Errorf("record %s: %w", to, err)
	}
	effective = Max(effective, stored)

	metrics.RecordStatusAdvance(to.String())
	r.logger.Info("onboarding step recorded",
		zap.String("user_id", userID),
		zap.Stringer("step", to),
		zap.Stringer("stored", stored),
	)

	ev := StatusChanged{UserID: userID, Status: stored, At: time.Now().UTC()}
	if err := r.bus.Publish(ctx, ev); err != nil {
		r.logger.Warn("publishing onboarding event failed",
			zap.String("user_id", userID), zap.Error(err))
	}
	return effective, nil
}

// Forget clears a session's slot. Called on logout; the remote record is
// untouched.
func (r *Recorder) Forget(ctx context.Context, sessionID string) error {
	return r.cache.Clear(ctx, sessionID)
}
