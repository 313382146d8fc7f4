package infrastructure

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCacheMetricsAdapter(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusCacheMetricsAdapterWithRegistry("redis", reg)

	t.Run("Initial state", func(t *testing.T) {
		stats := metrics.GetStats()
		assert.Equal(t, int64(0), stats.Hits)
		assert.Equal(t, int64(0), stats.Misses)
		assert.Equal(t, int64(0), stats.TotalOps)
		assert.Equal(t, float64(0), stats.HitRatio)
		assert.Empty(t, stats.Procedures)
	})

	t.Run("Record hits and misses", func(t *testing.T) {
		metrics.RecordHit("getCryptoInfos")
		metrics.RecordHit("getCryptoInfos")
		metrics.RecordMiss("getCryptoInfos")
		metrics.RecordMiss("getOrderBook")

		stats := metrics.GetStats()
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(2), stats.Misses)
		assert.Equal(t, int64(4), stats.TotalOps)
		assert.Equal(t, 0.5, stats.HitRatio)

		require.Contains(t, stats.Procedures, "getCryptoInfos")
		assert.Equal(t, int64(2), stats.Procedures["getCryptoInfos"].Hits)
		assert.Equal(t, int64(1), stats.Procedures["getCryptoInfos"].Misses)
		assert.Equal(t, int64(1), stats.Procedures["getOrderBook"].Misses)

		assert.Equal(t, float64(2), testutil.ToFloat64(metrics.collector.Hits.WithLabelValues("redis", "getCryptoInfos")))
		assert.Equal(t, float64(3), testutil.ToFloat64(metrics.collector.Requests.WithLabelValues("redis", "getCryptoInfos")))
		assert.InDelta(t, 2.0/3.0, testutil.ToFloat64(metrics.collector.HitRatio.WithLabelValues("redis", "getCryptoInfos")), 1e-9)
		assert.Equal(t, float64(0), testutil.ToFloat64(metrics.collector.HitRatio.WithLabelValues("redis", "getOrderBook")))
	})

	t.Run("Record store errors", func(t *testing.T) {
		metrics.RecordStoreError("getOrderBook", "get")
		metrics.RecordStoreError("getOrderBook", "set")

		stats := metrics.GetStats()
		assert.Equal(t, int64(2), stats.StoreErrors)
		assert.Equal(t, int64(2), stats.Procedures["getOrderBook"].StoreErrors)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.collector.StoreErrors.WithLabelValues("redis", "getOrderBook", "get")))
	})

	t.Run("Record latency", func(t *testing.T) {
		metrics.RecordLatency("getOrderBook", "get", 3*time.Millisecond)
		metrics.RecordLatency("getOrderBook", "handler", 120*time.Millisecond)

		assert.Equal(t, 2, testutil.CollectAndCount(metrics.collector.Latency, "dashboard_cache_duration_seconds"))
	})
}

func TestPrometheusCacheMetricsAdapter_SeparateRegistries(t *testing.T) {
	first := NewPrometheusCacheMetricsAdapterWithRegistry("memory", prometheus.NewRegistry())
	second := NewPrometheusCacheMetricsAdapterWithRegistry("memory", prometheus.NewRegistry())

	first.RecordHit("getFiatRates")

	assert.Equal(t, int64(1), first.GetStats().Hits)
	assert.Equal(t, int64(0), second.GetStats().Hits)
}

func TestPrometheusCacheMetricsAdapter_DefaultRegistry(t *testing.T) {
	first := NewPrometheusCacheMetricsAdapter("memory")
	second := NewPrometheusCacheMetricsAdapter("memory")

	assert.Same(t, first.collector, second.collector)
}

func TestPrometheusCacheMetricsAdapter_Concurrent(t *testing.T) {
	metrics := NewPrometheusCacheMetricsAdapterWithRegistry("memory", prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				metrics.RecordHit("getOHLCV")
			} else {
				metrics.RecordMiss("getOHLCV")
			}
		}(i)
	}
	wg.Wait()

	stats := metrics.GetStats()
	assert.Equal(t, int64(10), stats.Hits)
	assert.Equal(t, int64(10), stats.Misses)
	assert.Equal(t, 0.5, stats.HitRatio)
}
