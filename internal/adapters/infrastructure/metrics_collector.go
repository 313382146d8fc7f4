package infrastructure

import (
	"context"
	"sort"

	"dashboard.app/internal/ports"
)

// TierLister exposes the configured tier TTLs
type TierLister interface {
	TierTTLs() map[string]string
}

// MetricsCollectorAdapter implements the MetricsCollector interface for HTTPServerAdapter.
// It summarizes cache activity and the market providers in use.
type MetricsCollectorAdapter struct {
	cacheMetrics ports.CacheMetrics
	cacheConfig  ports.CacheConfig
	tiers        TierLister
	providers    []string
}

// MetricsCollectorConfig holds configuration for creating the metrics collector
type MetricsCollectorConfig struct {
	CacheMetrics ports.CacheMetrics
	Config       ports.ConfigProvider
	Tiers        TierLister
	Providers    []string
}

// NewMetricsCollectorAdapter creates a new metrics collector adapter
func NewMetricsCollectorAdapter(config MetricsCollectorConfig) *MetricsCollectorAdapter {
	adapter := &MetricsCollectorAdapter{
		cacheMetrics: config.CacheMetrics,
		tiers:        config.Tiers,
		providers:    append([]string(nil), config.Providers...),
	}
	if config.Config != nil {
		adapter.cacheConfig = config.Config.GetCacheConfig()
	}
	sort.Strings(adapter.providers)
	return adapter
}

// GetMetrics returns the cache summary and provider list
func (m *MetricsCollectorAdapter) GetMetrics(ctx context.Context) (map[string]interface{}, error) {
	cache := map[string]interface{}{
		"enabled":       m.cacheConfig.Enabled,
		"store":         m.cacheConfig.Type,
		"single_flight": m.cacheConfig.SingleFlight,
	}

	if m.cacheMetrics != nil {
		stats := m.cacheMetrics.GetStats()

		procedures := make(map[string]interface{}, len(stats.Procedures))
		for name, p := range stats.Procedures {
			procedures[name] = map[string]interface{}{
				"hits":         p.Hits,
				"misses":       p.Misses,
				"store_errors": p.StoreErrors,
			}
		}

		cache["hits"] = stats.Hits
		cache["misses"] = stats.Misses
		cache["store_errors"] = stats.StoreErrors
		cache["total_ops"] = stats.TotalOps
		cache["hit_ratio"] = stats.HitRatio
		cache["updated"] = stats.LastUpdated
		cache["procedures"] = procedures
	}

	if m.tiers != nil {
		cache["tiers"] = m.tiers.TierTTLs()
	}

	return map[string]interface{}{
		"cache":     cache,
		"providers": m.providers,
	}, nil
}
