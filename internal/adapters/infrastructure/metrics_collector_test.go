package infrastructure

import (
	"context"
	"testing"

	"dashboard.app/internal/mocks"
	"dashboard.app/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTiers map[string]string

func (s staticTiers) TierTTLs() map[string]string { return s }

func TestMetricsCollectorAdapter_GetMetrics(t *testing.T) {
	cacheMetrics := NewPrometheusCacheMetricsAdapterWithRegistry("memory", prometheus.NewRegistry())
	cacheMetrics.RecordHit("getCryptoInfos")
	cacheMetrics.RecordMiss("getCryptoInfos")
	cacheMetrics.RecordMiss("getFiatRates")
	cacheMetrics.RecordStoreError("getFiatRates", "set")

	configProvider := mocks.NewConfigProvider(t)
	configProvider.On("GetCacheConfig").Return(ports.CacheConfig{Enabled: true, Type: "memory", SingleFlight: true}).Once()

	collector := NewMetricsCollectorAdapter(MetricsCollectorConfig{
		CacheMetrics: cacheMetrics,
		Config:       configProvider,
		Tiers:        staticTiers{"seconds-short": "5s"},
		Providers:    []string{"frankfurter", "binance", "coinmarketcap"},
	})

	metrics, err := collector.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"binance", "coinmarketcap", "frankfurter"}, metrics["providers"])

	cache, ok := metrics["cache"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, cache["enabled"])
	assert.Equal(t, "memory", cache["store"])
	assert.Equal(t, true, cache["single_flight"])
	assert.Equal(t, int64(1), cache["hits"])
	assert.Equal(t, int64(2), cache["misses"])
	assert.Equal(t, int64(1), cache["store_errors"])
	assert.Equal(t, int64(3), cache["total_ops"])
	assert.Equal(t, map[string]string{"seconds-short": "5s"}, cache["tiers"])

	procedures, ok := cache["procedures"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{
		"hits":         int64(0),
		"misses":       int64(1),
		"store_errors": int64(1),
	}, procedures["getFiatRates"])
}

func TestMetricsCollectorAdapter_WithoutCacheMetrics(t *testing.T) {
	collector := NewMetricsCollectorAdapter(MetricsCollectorConfig{})

	metrics, err := collector.GetMetrics(context.Background())
	require.NoError(t, err)

	cache := metrics["cache"].(map[string]interface{})
	assert.Equal(t, false, cache["enabled"])
	assert.NotContains(t, cache, "hits")
	assert.NotContains(t, cache, "tiers")
}

func TestMetricsCollectorAdapter_ProvidersAreCopied(t *testing.T) {
	providers := []string{"binance"}
	collector := NewMetricsCollectorAdapter(MetricsCollectorConfig{Providers: providers})
	providers[0] = "changed"

	metrics, err := collector.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"binance"}, metrics["providers"])
}
