package infrastructure

import (
	"sync"
	"time"

	"dashboard.app/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cacheMetricsCollector holds the Prometheus vectors for the response cache
type cacheMetricsCollector struct {
	Hits        *prometheus.CounterVec
	Misses      *prometheus.CounterVec
	Requests    *prometheus.CounterVec
	StoreErrors *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	HitRatio    *prometheus.GaugeVec
}

var (
	defaultCollector     *cacheMetricsCollector
	defaultCollectorOnce sync.Once
)

func newCacheMetricsCollector(reg prometheus.Registerer) *cacheMetricsCollector {
	factory := promauto.With(reg)

	return &cacheMetricsCollector{
		Hits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_hits_total",
				Help: "The total number of response cache hits",
			},
			[]string{"store", "procedure"},
		),
		Misses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_misses_total",
				Help: "The total number of response cache misses",
			},
			[]string{"store", "procedure"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_requests_total",
				Help: "The total number of response cache lookups",
			},
			[]string{"store", "procedure"},
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_store_errors_total",
				Help: "The total number of failed cache store operations",
			},
			[]string{"store", "procedure", "operation"},
		),
		Latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_cache_duration_seconds",
				Help:    "Cache store and handler duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"store", "procedure", "operation"},
		),
		HitRatio: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dashboard_cache_hit_ratio",
				Help: "Cache hit ratio (hits/total lookups)",
			},
			[]string{"store", "procedure"},
		),
	}
}

func getDefaultCollector() *cacheMetricsCollector {
	defaultCollectorOnce.Do(func() {
		defaultCollector = newCacheMetricsCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// PrometheusCacheMetricsAdapter implements the CacheMetrics port with Prometheus
// counters and keeps in-process totals for the JSON summary.
type PrometheusCacheMetricsAdapter struct {
	store      string
	collector  *cacheMetricsCollector
	mu         sync.RWMutex
	procedures map[string]*ports.ProcedureStats
	updated    time.Time
}

// NewPrometheusCacheMetricsAdapter registers on the default Prometheus registry
func NewPrometheusCacheMetricsAdapter(store string) *PrometheusCacheMetricsAdapter {
	return newPrometheusCacheMetrics(store, getDefaultCollector())
}

// NewPrometheusCacheMetricsAdapterWithRegistry registers on reg
func NewPrometheusCacheMetricsAdapterWithRegistry(store string, reg prometheus.Registerer) *PrometheusCacheMetricsAdapter {
	return newPrometheusCacheMetrics(store, newCacheMetricsCollector(reg))
}

func newPrometheusCacheMetrics(store string, collector *cacheMetricsCollector) *PrometheusCacheMetricsAdapter {
	return &PrometheusCacheMetricsAdapter{
		store:      store,
		collector:  collector,
		procedures: make(map[string]*ports.ProcedureStats),
		updated:    time.Now(),
	}
}

// RecordHit counts a lookup answered from the store
func (m *PrometheusCacheMetricsAdapter) RecordHit(procedure string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statsFor(procedure).Hits++
	m.collector.Hits.WithLabelValues(m.store, procedure).Inc()
	m.collector.Requests.WithLabelValues(m.store, procedure).Inc()
	m.updateHitRatio(procedure)
}

// RecordMiss counts a lookup that fell through to the handler
func (m *PrometheusCacheMetricsAdapter) RecordMiss(procedure string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statsFor(procedure).Misses++
	m.collector.Misses.WithLabelValues(m.store, procedure).Inc()
	m.collector.Requests.WithLabelValues(m.store, procedure).Inc()
	m.updateHitRatio(procedure)
}

// RecordStoreError counts a store failure that was absorbed
func (m *PrometheusCacheMetricsAdapter) RecordStoreError(procedure, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statsFor(procedure).StoreErrors++
	m.updated = time.Now()
	m.collector.StoreErrors.WithLabelValues(m.store, procedure, operation).Inc()
}

// RecordLatency observes the duration of a store operation or handler run
func (m *PrometheusCacheMetricsAdapter) RecordLatency(procedure, operation string, duration time.Duration) {
	m.collector.Latency.WithLabelValues(m.store, procedure, operation).Observe(duration.Seconds())
}

// GetStats returns totals across procedures with a per-procedure breakdown
func (m *PrometheusCacheMetricsAdapter) GetStats() ports.CacheStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := ports.CacheStats{
		Procedures:  make(map[string]ports.ProcedureStats, len(m.procedures)),
		LastUpdated: m.updated,
	}
	for name, p := range m.procedures {
		stats.Hits += p.Hits
		stats.Misses += p.Misses
		stats.StoreErrors += p.StoreErrors
		stats.Procedures[name] = *p
	}
	stats.TotalOps = stats.Hits + stats.Misses
	if stats.TotalOps > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(stats.TotalOps)
	}
	return stats
}

// statsFor must be called while holding the write lock
func (m *PrometheusCacheMetricsAdapter) statsFor(procedure string) *ports.ProcedureStats {
	p, ok := m.procedures[procedure]
	if !ok {
		p = &ports.ProcedureStats{}
		m.procedures[procedure] = p
	}
	return p
}

// updateHitRatio must be called while holding the write lock
func (m *PrometheusCacheMetricsAdapter) updateHitRatio(procedure string) {
	m.updated = time.Now()

	p := m.procedures[procedure]
	total := p.Hits + p.Misses
	if total > 0 {
		m.collector.HitRatio.WithLabelValues(m.store, procedure).Set(float64(p.Hits) / float64(total))
	}
}
