package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is the per-session status slot. Get returns the raw stored value
// ("" when empty) so unreadable data is coerced by ParseStatus rather than
// rejected here. Set raises the slot to status and never lowers it; an
// unreadable stored value counts as StatusNone.
type Cache interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID string, status Status) error
	Clear(ctx context.Context, sessionID string) error
}

type MemoryCache struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{slots: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, sessionID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slots[sessionID], nil
}

func (c *MemoryCache) Set(_ context.Context, sessionID string, status Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.slots[sessionID]; ok && ParseStatus(cur) > status {
		return nil
	}
	c.slots[sessionID] = status.String()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, sessionID)
	return nil
}

const redisCachePrefix = "olla:onboarding:session:"

// RedisCache keeps slots in Redis so they survive API restarts. Entries
// expire with the session they belong to.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, sessionID string) (string, error) {
	v, err := c.client.Get(ctx, redisCachePrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// raiseScript sets KEYS[1] to ARGV[1] unless the stored value reads as a
// later status, refreshing the TTL (ARGV[2] ms, 0 for none) either way.
var raiseScript = redis.NewScript(buildRaiseScript())

func buildRaiseScript() string {
	var order strings.Builder
	for i, name := range statusNames {
		fmt.Fprintf(&order, "%s = %d, ", name, i)
	}
	return `
local order = {` + order.String() + `}
local ttl = tonumber(ARGV[2])
local cur = redis.call('GET', KEYS[1])
if cur then
  local rank = order[string.lower(string.match(cur, '^%s*(.-)%s*$'))] or 0
  if order[ARGV[1]] < rank then
    if ttl > 0 then redis.call('PEXPIRE', KEYS[1], ttl) end
    return cur
  end
end
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return ARGV[1]
`
}

func (c *RedisCache) Set(ctx context.Context, sessionID string, status Status) error {
	return raiseScript.Run(ctx, c.client, []string{redisCachePrefix + sessionID},
		status.String(), c.ttl.Milliseconds()).Err()
}

func (c *RedisCache) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, redisCachePrefix+sessionID).Err()
}
