package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]*Subscription
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byUser: make(map[string]*Subscription)}
}

func (r *InMemoryRepository) Upsert(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byUser[sub.UserID]; ok {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	} else {
		if sub.ID == "" {
			sub.ID = uuid.New().String()
		}
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	cp := *sub
	r.byUser[sub.UserID] = &cp
	return nil
}

func (r *InMemoryRepository) FindByUser(_ context.Context, userID string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.byUser {
		if sub.ID == id {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) List(_ context.Context, limit, offset int) ([]*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Subscription, 0, len(r.byUser))
	for _, sub := range r.byUser {
		cp := *sub
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

func (r *InMemoryRepository) Update(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byUser[sub.UserID]
	if !ok || existing.ID != sub.ID {
		return ErrNotFound
	}
	sub.UpdatedAt = time.Now().UTC()
	cp := *sub
	r.byUser[sub.UserID] = &cp
	return nil
}

func (r *InMemoryRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, sub := range r.byUser {
		if Current(sub.Status) && sub.CurrentPeriodEnd.Before(now) {
			sub.Status = StatusExpired
			sub.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, sub := range r.byUser {
		counts[sub.Status]++
	}
	return counts, nil
}
