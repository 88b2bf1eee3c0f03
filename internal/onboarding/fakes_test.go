package onboarding

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// fakeProfiles is an in-memory ProfileStore.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	getErr   error
	// block, when set, makes GetProfile wait until the context is done.
	block bool
	// hold, when set, makes GetProfile answer with the record as it was
	// when called, but only once hold is closed.
	hold    chan struct{}
	started chan struct{}
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]*Profile)}
}

func (f *fakeProfiles) put(userID string, professional bool, status *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID] = &Profile{UserID: userID, Professional: professional, Status: status}
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	f.mu.Lock()
	block, hold, started, getErr := f.block, f.hold, f.started, f.getErr
	var snapshot *Profile
	if p, ok := f.profiles[userID]; ok {
		cp := *p
		snapshot = &cp
	}
	f.mu.Unlock()

	if block {
		if started != nil {
			started <- struct{}{}
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if getErr != nil {
		return nil, getErr
	}
	if hold != nil {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if snapshot == nil {
		return nil, ErrProfileNotFound
	}
	return snapshot, nil
}

// AdvanceStatus mirrors the real stores: the row is written unless its raw
// value already reads as `to` or later, so unknown values get overwritten.
func (f *fakeProfiles) AdvanceStatus(_ context.Context, userID string, to Status) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return StatusNone, ErrProfileNotFound
	}
	if p.Status != nil && slices.Contains(Names(to.AtLeast()), strings.ToLower(strings.TrimSpace(*p.Status))) {
		return ParseStatus(*p.Status), nil
	}
	v := to.String()
	p.Status = &v
	return to, nil
}

// stored returns the raw remote value for userID.
func (f *fakeProfiles) stored(userID string) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		return p.Status
	}
	return nil
}

var errRemoteDown = errors.New("remote down")
