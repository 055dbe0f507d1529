package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	pingErr  error
	closed   bool
	deadline bool
}

func (s *stubClient) Ping(ctx context.Context) *redis.StatusCmd {
	_, s.deadline = ctx.Deadline()
	return redis.NewStatusResult("PONG", s.pingErr)
}

func (s *stubClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func (s *stubClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (s *stubClient) Close() error { s.closed = true; return nil }

func TestNewRedisClient(t *testing.T) {
	orig := redisNewClient
	t.Cleanup(func() { redisNewClient = orig })

	t.Run("success", func(t *testing.T) {
		var opts *redis.Options
		stub := &stubClient{}
		redisNewClient = func(o *redis.Options) redisClient {
			opts = o
			return stub
		}

		c, err := NewRedisClient(context.Background(), "127.0.0.1:6379", "secret", 1)
		require.NoError(t, err)
		require.Equal(t, stub, c)
		require.Equal(t, "127.0.0.1:6379", opts.Addr)
		require.Equal(t, "secret", opts.Password)
		require.Equal(t, 1, opts.DB)
		require.True(t, stub.deadline)
		require.False(t, stub.closed)
	})

	t.Run("ping fail", func(t *testing.T) {
		stub := &stubClient{pingErr: errors.New("fail")}
		redisNewClient = func(o *redis.Options) redisClient { return stub }

		c, err := NewRedisClient(context.Background(), "addr", "", 0)
		require.Error(t, err)
		require.Nil(t, c)
		require.True(t, stub.closed)
	})
}
