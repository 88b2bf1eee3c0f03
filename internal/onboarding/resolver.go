package onboarding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/metrics"
)

// RoleProfessional is the token role of business owners. It stands in for
// the profile's professional flag when the remote profile is unavailable.
const RoleProfessional = "PROFESSIONAL"

// Identity is the authenticated caller. A nil *Identity means nobody is
// logged in.
type Identity struct {
	UserID    string
	SessionID string
	Role      string
}

// Resolver gathers both status sources for a caller and runs Decide.
type Resolver struct {
	cache    Cache
	profiles ProfileStore
	timeout  time.Duration
	logger   *zap.Logger
}

func NewResolver(cache Cache, profiles ProfileStore, timeout time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{cache: cache, profiles: profiles, timeout: timeout, logger: logger}
}

// Resolve only returns an error when ctx itself is done; every other
// failure degrades to a decision.
func (r *Resolver) Resolve(ctx context.Context, id *Identity, path string) (Decision, error) {
	if id == nil || id.UserID == "" {
		d := Decide(Input{Path: path})
		metrics.RecordGuardDecision(string(d.Reason), d.Allowed)
		return d, nil
	}

	in := Input{UserID: id.UserID, Path: path}

	if id.SessionID != "" {
		raw, err := r.cache.Get(ctx, id.SessionID)
		if err != nil {
			r.logger.Warn("session status cache read failed",
				zap.String("user_id", id.UserID), zap.Error(err))
		} else if raw != "" {
			in.Local = &raw
		}
	}

	profile, err := r.fetchProfile(ctx, id.UserID)
	if ctx.Err() != nil {
		return Decision{}, ctx.Err()
	}
	if err != nil {
		// Degraded: the cache alone decides, and the token's role stands in
		// for the professional flag.
		r.logger.Warn("remote profile unavailable, using session cache only",
			zap.String("user_id", id.UserID), zap.Error(err))
		metrics.RecordRemoteFallback()
		in.Professional = id.Role == RoleProfessional
	} else {
		in.Professional = profile.Professional
		in.Remote = profile.Status
	}

	d := Decide(in)
	metrics.RecordGuardDecision(string(d.Reason), d.Allowed)

	if in.Professional && id.SessionID != "" && ParseStatusPtr(in.Local) < d.Effective {
		if err := r.cache.Set(ctx, id.SessionID, d.Effective); err != nil {
			r.logger.Warn("session status cache write failed",
				zap.String("user_id", id.UserID), zap.Error(err))
		}
	}
	return d, nil
}

func (r *Resolver) fetchProfile(ctx context.Context, userID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.profiles.GetProfile(ctx, userID)
}

// Guard runs resolutions through a Coordinator so that only the latest
// navigation of each session produces a decision.
type Guard struct {
	resolver *Resolver
	coord    *Coordinator
}

func NewGuard(resolver *Resolver, coord *Coordinator) *Guard {
	return &Guard{resolver: resolver, coord: coord}
}

// Resolve decides without coordination, for requests that are not
// navigations and may legitimately run in parallel.
func (g *Guard) Resolve(ctx context.Context, id *Identity, path string) (Decision, error) {
	return g.resolver.Resolve(ctx, id, path)
}

// Check decides a navigation. A newer navigation of the same session
// supersedes it.
func (g *Guard) Check(ctx context.Context, id *Identity, path string) (Decision, error) {
	if id == nil || id.SessionID == "" {
		return g.resolver.Resolve(ctx, id, path)
	}
	return g.coord.Run(ctx, id.SessionID, func(ctx context.Context) (Decision, error) {
		return g.resolver.Resolve(ctx, id, path)
	})
}
