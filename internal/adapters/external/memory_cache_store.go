package external

import (
	"context"
	"sync"
	"time"

	"dashboard.app/pkg/errors"
)

// MemoryCacheStoreAdapter implements CacheStore port using a process-local map.
// It is only shared between callers of the same process.
type MemoryCacheStoreAdapter struct {
	data  map[string]memoryCacheItem
	mutex sync.RWMutex
	now   func() time.Time

	purgeInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCacheStoreOption configures a MemoryCacheStoreAdapter
type MemoryCacheStoreOption func(*MemoryCacheStoreAdapter)

// WithClock replaces the wall clock used for expiry
func WithClock(now func() time.Time) MemoryCacheStoreOption {
	return func(c *MemoryCacheStoreAdapter) {
		c.now = now
	}
}

// WithPurgeInterval drops stale entries in the background every interval until Close
func WithPurgeInterval(interval time.Duration) MemoryCacheStoreOption {
	return func(c *MemoryCacheStoreAdapter) {
		c.purgeInterval = interval
	}
}

// NewMemoryCacheStoreAdapter creates a new in-memory cache store
func NewMemoryCacheStoreAdapter(opts ...MemoryCacheStoreOption) *MemoryCacheStoreAdapter {
	store := &MemoryCacheStoreAdapter{
		data: make(map[string]memoryCacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.purgeInterval > 0 {
		go store.purgeLoop()
	}
	return store
}

func (c *MemoryCacheStoreAdapter) purgeLoop() {
	ticker := time.NewTicker(c.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.PurgeExpired()
		case <-c.stop:
			return
		}
	}
}

// Get returns the stored value while it is fresh
func (c *MemoryCacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, errors.NewNotFoundError("cache miss")
	}
	if !c.now().Before(item.expiresAt) {
		c.evict(key, item.expiresAt)
		return nil, errors.NewNotFoundError("cache miss")
	}

	return item.data, nil
}

// Set stores value until ttl elapses, replacing any previous entry
func (c *MemoryCacheStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = memoryCacheItem{
		data:      stored,
		expiresAt: c.now().Add(ttl),
	}

	return nil
}

// Delete removes a key
func (c *MemoryCacheStoreAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// TTL returns the remaining lifetime of a key
func (c *MemoryCacheStoreAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return 0, errors.NewNotFoundError("cache miss")
	}
	remaining := item.expiresAt.Sub(c.now())
	if remaining <= 0 {
		return 0, errors.NewNotFoundError("cache miss")
	}
	return remaining, nil
}

// Ping always succeeds
func (c *MemoryCacheStoreAdapter) Ping(ctx context.Context) error {
	return nil
}

// Close stops the purge loop and drops every entry
func (c *MemoryCacheStoreAdapter) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]memoryCacheItem)
	return nil
}

// PurgeExpired removes stale entries and returns how many were dropped
func (c *MemoryCacheStoreAdapter) PurgeExpired() int {
	now := c.now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	purged := 0
	for key, item := range c.data {
		if !now.Before(item.expiresAt) {
			delete(c.data, key)
			purged++
		}
	}
	return purged
}

// Len returns the number of stored entries, stale ones included
func (c *MemoryCacheStoreAdapter) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCacheStoreAdapter) evict(key string, expiresAt time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// A concurrent Set may have refreshed the entry.
	if item, ok := c.data[key]; ok && item.expiresAt.Equal(expiresAt) {
		delete(c.data, key)
	}
}
