package loyalty

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu         sync.RWMutex
	byBusiness map[string]*Program
	tiers      map[string][]*Tier
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byBusiness: make(map[string]*Program),
		tiers:      make(map[string][]*Tier),
	}
}

func (r *InMemoryRepository) UpsertProgram(_ context.Context, p *Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byBusiness[p.BusinessID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	cp := *p
	cp.Tiers = nil
	r.byBusiness[p.BusinessID] = &cp
	return nil
}

func (r *InMemoryRepository) FindProgramByBusiness(_ context.Context, businessID string) (*Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byBusiness[businessID]
	if !ok {
		return nil, ErrProgramNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryRepository) ListTiers(_ context.Context, programID string) ([]*Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tier, 0, len(r.tiers[programID]))
	for _, t := range r.tiers[programID] {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return out, nil
}

func (r *InMemoryRepository) addLocked(t *Tier) error {
	for _, existing := range r.tiers[t.ProgramID] {
		if existing.Threshold == t.Threshold {
			return ErrDuplicateThreshold
		}
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now().UTC()
	cp := *t
	r.tiers[t.ProgramID] = append(r.tiers[t.ProgramID], &cp)
	return nil
}

func (r *InMemoryRepository) AddTier(_ context.Context, t *Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(t)
}

func (r *InMemoryRepository) ReplaceTiers(_ context.Context, programID string, tiers []*Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.tiers[programID]
	r.tiers[programID] = nil
	for _, t := range tiers {
		t.ProgramID = programID
		if err := r.addLocked(t); err != nil {
			r.tiers[programID] = previous
			return err
		}
	}
	return nil
}

func (r *InMemoryRepository) DeleteTier(_ context.Context, programID, tierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tiers := r.tiers[programID]
	for i, t := range tiers {
		if t.ID == tierID {
			r.tiers[programID] = append(tiers[:i:i], tiers[i+1:]...)
			return nil
		}
	}
	return ErrTierNotFound
}

func (r *InMemoryRepository) CountTiers(_ context.Context, programID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tiers[programID]), nil
}
