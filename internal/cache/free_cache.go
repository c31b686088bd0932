package cache

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*FreeCache)(nil)

// minimum freecache size is 512KB, smaller values are bumped up by the lib
const bytesInMB = 1024 * 1024

type FreeCache struct {
	mainCache *freecache.Cache
}

func NewFreeCache(sizeMB int) *FreeCache {
	return &FreeCache{
		mainCache: freecache.NewCache(sizeMB * bytesInMB),
	}
}

func (fc *FreeCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, err := fc.mainCache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("free cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	return val, true
}

func (fc *FreeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := fc.mainCache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		log.Errorf("free cache set [%s]: %s", key, err)
		return false
	}
	return true
}

func (fc *FreeCache) Clear(_ context.Context) {
	fc.mainCache.Clear()
}
