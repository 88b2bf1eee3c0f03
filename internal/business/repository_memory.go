package business

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string]*Business
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byOwner: make(map[string]*Business)}
}

func (r *InMemoryRepository) Upsert(_ context.Context, b *Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byOwner[b.OwnerID]; ok {
		b.ID = existing.ID
		b.LogoURL = existing.LogoURL
		b.CreatedAt = existing.CreatedAt
	} else {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	cp := *b
	r.byOwner[b.OwnerID] = &cp
	return nil
}

func (r *InMemoryRepository) FindByOwner(_ context.Context, ownerID string) (*Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byOwner[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *InMemoryRepository) UpdateLogo(_ context.Context, ownerID, logoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byOwner[ownerID]
	if !ok {
		return ErrNotFound
	}
	b.LogoURL = logoURL
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) List(_ context.Context, limit, offset int) ([]*Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Business, 0, len(r.byOwner))
	for _, b := range r.byOwner {
		cp := *b
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *InMemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOwner), nil
}
