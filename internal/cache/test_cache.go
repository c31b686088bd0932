package cache

import (
	"context"
	"sync"
	"time"
)

var _ Cache = (*TestCache)(nil)

// TestCache is a map backed cache for tests. TTLs are ignored.
type TestCache struct {
	cache map[string][]byte
	mutex sync.Mutex

	Gets int
	Sets int
}

func NewTestCache() *TestCache {
	return &TestCache{
		cache: make(map[string][]byte),
	}
}

func (tc *TestCache) Get(_ context.Context, key string) ([]byte, bool) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.Gets++
	val, ok := tc.cache[key]
	return val, ok
}

func (tc *TestCache) Set(_ context.Context, key string, value []byte, _ time.Duration) bool {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.Sets++
	tc.cache[key] = value
	return true
}

func (tc *TestCache) Clear(_ context.Context) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.cache = make(map[string][]byte)
}

func (tc *TestCache) Len() int {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	return len(tc.cache)
}
