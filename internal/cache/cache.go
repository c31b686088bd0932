package cache

import (
	"context"
	"time"
)

// Cache stores serialized results under string keys.
// A miss and a backend failure look the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	Clear(ctx context.Context)
}
