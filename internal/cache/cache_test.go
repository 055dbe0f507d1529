package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(context.Background(), "k") })
	require.Panics(t, func() { c.Set(context.Background(), "k", 1, 0) })
	require.NoError(t, c.Close())

	c.CloseFn = func() error { return errors.New("close") }
	require.EqualError(t, c.Close(), "close")
}

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		c := MemoryFake()
		require.NoError(t, Probe(ctx, c))
		v, err := c.Get(ctx, probeKey).Result()
		require.NoError(t, err)
		require.NotEmpty(t, v)
	})

	t.Run("set fails", func(t *testing.T) {
		c := &FakeCache{SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("down"))
		}}
		require.ErrorContains(t, Probe(ctx, c), "cache set: down")
	})

	t.Run("get fails", func(t *testing.T) {
		c := MemoryFake()
		c.GetFn = func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		}
		err := Probe(ctx, c)
		require.ErrorIs(t, err, redis.Nil)
	})

	t.Run("stale value", func(t *testing.T) {
		var gotTTL time.Duration
		c := &FakeCache{
			SetFn: func(_ context.Context, _ string, _ any, ttl time.Duration) *redis.StatusCmd {
				gotTTL = ttl
				return redis.NewStatusResult("OK", nil)
			},
			GetFn: func(context.Context, string) *redis.StringCmd {
				return redis.NewStringResult("old", nil)
			},
		}
		require.EqualError(t, Probe(ctx, c), "cache probe mismatch")
		require.Equal(t, probeTTL, gotTTL)
	})
}
