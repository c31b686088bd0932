package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*RedisCache)(nil)

const clearScanCount = 100

type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCache(client *redis.Client, keyPrefix string) *RedisCache {
	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, rc.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("redis cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	return val, true
}

func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := rc.client.Set(ctx, rc.keyPrefix+key, value, ttl).Err(); err != nil {
		log.Errorf("redis cache set [%s]: %s", key, err)
		return false
	}
	return true
}

// Clear removes only the keys under this cache's prefix.
func (rc *RedisCache) Clear(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := rc.client.Scan(ctx, cursor, rc.keyPrefix+"*", clearScanCount).Result()
		if err != nil {
			log.Errorf("redis cache clear, scan: %s", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				log.Errorf("redis cache clear, del: %s", err)
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
