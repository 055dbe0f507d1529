package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 封裝服務所需的 Redis 指令子集
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Close() error
}

const (
	probeKey = "recipe-app:healthcheck"
	probeTTL = 10 * time.Second
)

var probeNow = time.Now

// Probe 寫入並讀回健康檢查鍵，確認快取可讀寫
func Probe(ctx context.Context, c Cache) error {
	want := probeNow().UTC().Format(time.RFC3339Nano)
	if err := c.Set(ctx, probeKey, want, probeTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	got, err := c.Get(ctx, probeKey).Result()
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if got != want {
		return fmt.Errorf("cache probe mismatch")
	}
	return nil
}

type FakeCache struct {
	GetFn   func(ctx context.Context, key string) *redis.StringCmd
	SetFn   func(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	CloseFn func() error
}

func (f *FakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, expiration)
	}
	panic("unexpected Set")
}

// Close no-op unless CloseFn is set
func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}

// MemoryFake 回傳以 map 儲存的 FakeCache，讓 Probe 可在測試中成功
func MemoryFake() *FakeCache {
	store := map[string]string{}
	return &FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			v, ok := store[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
			store[key] = fmt.Sprint(value)
			return redis.NewStatusResult("OK", nil)
		},
	}
}
