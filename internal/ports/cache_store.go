package ports

import (
	"context"
	"time"
)

// CacheStore defines the contract for the shared key-value store behind the response cache.
// Get returns a NotFound AppError when the key is absent or expired.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheStoreAdmin is implemented by stores that support operator actions
type CacheStoreAdmin interface {
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ManagedCacheStore is a CacheStore that also supports operator actions
type ManagedCacheStore interface {
	CacheStore
	CacheStoreAdmin
}

// CacheMetrics defines the contract for response cache performance tracking
type CacheMetrics interface {
	RecordHit(procedure string)
	RecordMiss(procedure string)
	RecordStoreError(procedure, operation string)
	RecordLatency(procedure, operation string, duration time.Duration)
	GetStats() CacheStats
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Hits        int64
	Misses      int64
	StoreErrors int64
	TotalOps    int64
	HitRatio    float64
	Procedures  map[string]ProcedureStats
	LastUpdated time.Time
}

// ProcedureStats represents cache performance of a single procedure
type ProcedureStats struct {
	Hits        int64
	Misses      int64
	StoreErrors int64
}
