package external

import (
	"context"
	"fmt"
	"time"

	"dashboard.app/internal/config"
	"dashboard.app/pkg/errors"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/cespare/xxhash/v2"
)

const (
	memcacheMaxKeyLength = 250
	// Expirations beyond 30 days are read by memcached as unix timestamps.
	memcacheRelativeLimit = 30 * 24 * time.Hour
)

// MemcacheCacheStoreAdapter implements CacheStore port using memcached
type MemcacheCacheStoreAdapter struct {
	client *memcache.Client
	now    func() time.Time
}

// NewMemcacheCacheStoreAdapter creates a memcached cache store
func NewMemcacheCacheStoreAdapter(config *config.MemcachedConfig) (*MemcacheCacheStoreAdapter, error) {
	if config == nil {
		return nil, errors.NewConfigurationError("memcached config cannot be nil", nil)
	}
	if len(config.Servers) == 0 {
		return nil, errors.NewConfigurationError("memcached servers cannot be empty", nil)
	}

	client := memcache.New(config.Servers...)
	client.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	client.MaxIdleConns = config.MaxIdleConns

	return &MemcacheCacheStoreAdapter{
		client: client,
		now:    time.Now,
	}, nil
}

// Get retrieves a value from memcached
func (m *MemcacheCacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	item, err := m.client.Get(memcacheKey(key))
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, errors.NewNotFoundError("cache miss")
		}
		return nil, errors.NewCacheError("memcached get operation failed", err)
	}

	return item.Value, nil
}

// Set stores a value in memcached with TTL
func (m *MemcacheCacheStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	err := m.client.Set(&memcache.Item{
		Key:        memcacheKey(key),
		Value:      value,
		Expiration: memcacheExpiration(ttl, m.now()),
	})
	if err != nil {
		return errors.NewCacheError("memcached set operation failed", err)
	}

	return nil
}

// Delete removes a value from memcached
func (m *MemcacheCacheStoreAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	err := m.client.Delete(memcacheKey(key))
	if err != nil && err != memcache.ErrCacheMiss {
		return errors.NewCacheError("memcached delete operation failed", err)
	}

	return nil
}

// Ping checks that every configured server answers
func (m *MemcacheCacheStoreAdapter) Ping(ctx context.Context) error {
	if err := m.client.Ping(); err != nil {
		return errors.NewCacheError("memcached ping failed", err)
	}
	return nil
}

// Close is a no-op; idle connections are reaped by the client
func (m *MemcacheCacheStoreAdapter) Close() error {
	return nil
}

// memcacheKey returns key when memcached accepts it as is, otherwise its digest.
// Cache keys embed canonical JSON, which may carry spaces or exceed the key limit.
func memcacheKey(key string) string {
	if isLegalMemcacheKey(key) {
		return key
	}
	return fmt.Sprintf("xx:%016x", xxhash.Sum64String(key))
}

func isLegalMemcacheKey(key string) bool {
	if len(key) > memcacheMaxKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] <= ' ' || key[i] == 0x7f {
			return false
		}
	}
	return true
}

// memcacheExpiration converts ttl into memcached's expiration field, rounding up to whole seconds
func memcacheExpiration(ttl time.Duration, now time.Time) int32 {
	seconds := int64((ttl + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	if ttl > memcacheRelativeLimit {
		return int32(now.Add(ttl).Unix())
	}
	return int32(seconds)
}
