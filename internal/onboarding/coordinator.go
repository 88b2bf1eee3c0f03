package onboarding

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a check that was overtaken by a newer
// navigation in the same session. Its decision must not be applied.
var ErrSuperseded = errors.New("onboarding check superseded by a newer navigation")

type inflightCheck struct {
	gen    uint64
	cancel context.CancelFunc
}

// Coordinator enforces last-navigation-wins per session: starting a check
// cancels the session's previous in-flight check.
type Coordinator struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflightCheck
}

func NewCoordinator() *Coordinator {
	return &Coordinator{inflight: make(map[string]inflightCheck)}
}

func (c *Coordinator) Run(
	ctx context.Context,
	sessionID string,
	fn func(ctx context.Context) (Decision, error),
) (Decision, error) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.seq++
	gen := c.seq
	if prev, ok := c.inflight[sessionID]; ok {
		prev.cancel()
	}
	c.inflight[sessionID] = inflightCheck{gen: gen, cancel: cancel}
	c.mu.Unlock()

	d, err := fn(ctx)

	c.mu.Lock()
	cur, ok := c.inflight[sessionID]
	latest := ok && cur.gen == gen
	if latest {
		delete(c.inflight, sessionID)
	}
	c.mu.Unlock()

	if !latest {
		return Decision{}, ErrSuperseded
	}
	return d, err
}

// InFlight reports how many sessions currently have a check running.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
