package onboarding

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatusChanged is published whenever a user's remote status advances.
type StatusChanged struct {
	UserID string    `json:"user_id"`
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
}

// Bus delivers StatusChanged events to interested clients so they re-run the
// guard immediately instead of waiting for the next navigation.
type Bus interface {
	Publish(ctx context.Context, ev StatusChanged) error
	// Subscribe returns a channel of events for userID and a cancel func
	// that must be called to release the subscription.
	Subscribe(ctx context.Context, userID string) (<-chan StatusChanged, func(), error)
}

const subscriberBuffer = 8

// MemoryBus fans events out within a single process. Slow subscribers drop
// events rather than block the publisher.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[chan StatusChanged]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[chan StatusChanged]struct{})}
}

func (b *MemoryBus) Publish(_ context.Context, ev StatusChanged) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, userID string) (<-chan StatusChanged, func(), error) {
	ch := make(chan StatusChanged, subscriberBuffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan StatusChanged]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

const redisEventsPrefix = "olla:onboarding:events:"

// RedisBus relays events across API instances over Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev StatusChanged) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, redisEventsPrefix+ev.UserID, payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, userID string) (<-chan StatusChanged, func(), error) {
	sub := b.client.Subscribe(ctx, redisEventsPrefix+userID)
	// Wait for the subscription confirmation so no event published right
	// after Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan StatusChanged, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev StatusChanged
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed onboarding event",
						zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel, nil
}
