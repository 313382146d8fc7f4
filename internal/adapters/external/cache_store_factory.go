package external

import (
	"fmt"
	"time"

	"dashboard.app/internal/config"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

// memoryPurgeInterval bounds how long expired entries occupy the in-process store
const memoryPurgeInterval = time.Minute

type CacheStoreFactory struct{}

func NewCacheStoreFactory() *CacheStoreFactory {
	return &CacheStoreFactory{}
}

func (f *CacheStoreFactory) CreateCacheStore(cfg *config.CacheConfig) (ports.ManagedCacheStore, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheStoreAdapter(WithPurgeInterval(memoryPurgeInterval)), nil
	case config.CacheTypeRedis:
		store, err := NewRedisCacheStoreAdapter(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheTypeMemcached:
		store, err := NewMemcacheCacheStoreAdapter(&cfg.Memcached)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
