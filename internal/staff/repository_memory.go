package staff

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu         sync.RWMutex
	byBusiness map[string][]*Member
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byBusiness: make(map[string][]*Member)}
}

func (r *InMemoryRepository) Add(_ context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byBusiness[m.BusinessID] {
		if existing.Email == m.Email {
			return ErrDuplicate
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	cp := *m
	r.byBusiness[m.BusinessID] = append(r.byBusiness[m.BusinessID], &cp)
	return nil
}

func (r *InMemoryRepository) ListByBusiness(_ context.Context, businessID string) ([]*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Member, 0, len(r.byBusiness[businessID]))
	for _, m := range r.byBusiness[businessID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, businessID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.byBusiness[businessID]
	for i, m := range members {
		if m.ID == id {
			r.byBusiness[businessID] = append(members[:i:i], members[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) CountActive(_ context.Context, businessID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.byBusiness[businessID] {
		if m.Active {
			n++
		}
	}
	return n, nil
}
