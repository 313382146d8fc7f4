package infrastructure

import (
	"context"
	"time"

	"dashboard.app/internal/ports"
)

const storePingTimeout = 2 * time.Second

// StorePinger is implemented by cache stores that can report liveness
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CacheStoreHealthChecker reports cache store reachability.
// An unreachable store degrades the service rather than failing it.
type CacheStoreHealthChecker struct {
	store     StorePinger
	storeType string
	enabled   bool
}

// NewCacheStoreHealthChecker creates a new cache store health checker
func NewCacheStoreHealthChecker(store StorePinger, cfg ports.CacheConfig) *CacheStoreHealthChecker {
	return &CacheStoreHealthChecker{
		store:     store,
		storeType: cfg.Type,
		enabled:   cfg.Enabled,
	}
}

// Check pings the store with a short timeout
func (c *CacheStoreHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Status:    "healthy",
		Details: map[string]interface{}{
			"store":   c.storeType,
			"enabled": c.enabled,
		},
	}

	if !c.enabled {
		status.Status = "disabled"
		return status
	}
	if c.store == nil {
		status.Status = "degraded"
		status.Error = "cache store is not configured"
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	start := time.Now()
	err := c.store.Ping(pingCtx)
	status.Details["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		status.Status = "degraded"
		status.Error = err.Error()
		return status
	}

	// Only the in-process store can count its entries
	if sized, ok := c.store.(interface{ Len() int }); ok {
		status.Details["entries"] = sized.Len()
	}
	return status
}

// MarketProviderHealthChecker reports whether a market data provider is wired
type MarketProviderHealthChecker struct {
	component string
	provider  interface{ GetProviderName() string }
}

// NewMarketProviderHealthChecker creates a new market provider health checker
func NewMarketProviderHealthChecker(component string, provider interface{ GetProviderName() string }) *MarketProviderHealthChecker {
	return &MarketProviderHealthChecker{component: component, provider: provider}
}

// Check verifies the provider is available without calling upstream
func (m *MarketProviderHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: m.component,
		Status:    "healthy",
		Details:   map[string]interface{}{},
	}

	if m.provider == nil {
		status.Status = "unhealthy"
		status.Error = "market provider is not available"
		return status
	}

	status.Details["provider"] = m.provider.GetProviderName()
	return status
}
