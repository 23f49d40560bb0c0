package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenCache はTokenCacheのRedis実装
// 発行済みアクセストークンをメールアドレスをキーにして保持します
type RedisTokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTokenCache(rdb *redis.Client, ttl time.Duration) *RedisTokenCache {
	return &RedisTokenCache{rdb: rdb, ttl: ttl}
}

func tokenKey(email string) string {
	return fmt.Sprintf("user:token:%s", email)
}

func (c *RedisTokenCache) CacheToken(ctx context.Context, email, token string) error {
	return c.rdb.Set(ctx, tokenKey(email), token, c.ttl).Err()
}

func (c *RedisTokenCache) GetToken(ctx context.Context, email string) (string, error) {
	val, err := c.rdb.Get(ctx, tokenKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
