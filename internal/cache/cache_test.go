package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tally struct {
	Options    map[uint]int64 `json:"options"`
	TotalVotes int64          `json:"total_votes"`
}

func exerciseBackend(t *testing.T, c Cache) {
	ctx := context.Background()

	var out tally
	assert.ErrorIs(t, c.Get(ctx, "missing", &out), ErrCacheMiss)

	in := tally{Options: map[uint]int64{1: 3, 2: 0}, TotalVotes: 3}
	require.NoError(t, c.Set(ctx, "poll_1_votes", in, time.Minute))
	require.NoError(t, c.Get(ctx, "poll_1_votes", &out))
	assert.Equal(t, in, out)

	require.NoError(t, c.Delete(ctx, "poll_1_votes"))
	assert.ErrorIs(t, c.Get(ctx, "poll_1_votes", &out), ErrCacheMiss)
}

func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(10)
	require.NoError(t, err)
	exerciseBackend(t, c)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, err := NewMemoryCache(10)
	require.NoError(t, err)
	now := time.Now()
	c.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 5*time.Minute))

	var s string
	now = now.Add(4 * time.Minute)
	require.NoError(t, c.Get(ctx, "k", &s))
	assert.Equal(t, "v", s)

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewMemoryCache(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	var n int
	assert.ErrorIs(t, c.Get(ctx, "a", &n), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "c", &n))
	assert.Equal(t, 3, n)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseBackend(t, NewRedisCache(client))
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := NewRedisCache(client)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 5*time.Minute))
	mr.FastForward(6 * time.Minute)

	var s string
	assert.ErrorIs(t, c.Get(ctx, "k", &s), ErrCacheMiss)
}
