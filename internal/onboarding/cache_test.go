package onboarding

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	sid := uuid.NewString()

	v, err := c.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, c.Set(ctx, sid, StatusBusinessInfo))
	v, err = c.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "business_info", v)

	// Lower statuses never overwrite a later one.
	require.NoError(t, c.Set(ctx, sid, StatusPlanSelected))
	v, err = c.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "business_info", v)

	require.NoError(t, c.Set(ctx, sid, StatusCompleted))
	v, err = c.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "completed", v)

	require.NoError(t, c.Clear(ctx, sid))
	v, err = c.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_SetReplacesUnreadableSlot(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	c.SetRaw("s", "garbage-value")

	require.NoError(t, c.Set(ctx, "s", StatusNone))
	v, _ := c.Get(ctx, "s")
	assert.Equal(t, "none", v)

	c.SetRaw("s", " LOYALTY_SETUP ")
	require.NoError(t, c.Set(ctx, "s", StatusPlanSelected))
	v, _ = c.Get(ctx, "s")
	assert.Equal(t, " LOYALTY_SETUP ", v)
}

func TestMemoryCache_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "a", StatusCompleted))
	v, _ := c.Get(ctx, "b")
	assert.Empty(t, v)
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	exerciseCache(t, NewRedisCache(client, time.Minute))
}
