package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient 為 NewRedisClient 內部所需方法，測試可替換
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

const dialCheckTimeout = 5 * time.Second

// NewRedisClient 建立 Redis 連線並在逾時內完成 Ping
func NewRedisClient(ctx context.Context, addr, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, dialCheckTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
