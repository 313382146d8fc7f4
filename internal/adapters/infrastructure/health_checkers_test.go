package infrastructure

import (
	"context"
	stderrors "errors"
	"testing"

	"dashboard.app/internal/mocks"
	"dashboard.app/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type namedProvider string

func (n namedProvider) GetProviderName() string { return string(n) }

// sizedStore reports a fixed entry count like the in-process store
type sizedStore struct {
	entries int
}

func (s sizedStore) Ping(ctx context.Context) error { return nil }
func (s sizedStore) Len() int                       { return s.entries }

func TestCacheStoreHealthChecker(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		store := mocks.NewCacheStore(t)
		store.On("Ping", mock.Anything).Return(nil).Once()

		checker := NewCacheStoreHealthChecker(store, ports.CacheConfig{Enabled: true, Type: "redis"})
		status := checker.Check(context.Background())

		assert.Equal(t, "cache", status.Component)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "redis", status.Details["store"])
		assert.Contains(t, status.Details, "latency_ms")
		assert.Empty(t, status.Error)
	})

	t.Run("ReportsEntryCount", func(t *testing.T) {
		checker := NewCacheStoreHealthChecker(sizedStore{entries: 3}, ports.CacheConfig{Enabled: true, Type: "memory"})
		status := checker.Check(context.Background())

		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, 3, status.Details["entries"])
	})

	t.Run("Unreachable", func(t *testing.T) {
		store := mocks.NewCacheStore(t)
		store.On("Ping", mock.Anything).Return(stderrors.New("dial tcp: connection refused")).Once()

		checker := NewCacheStoreHealthChecker(store, ports.CacheConfig{Enabled: true, Type: "redis"})
		status := checker.Check(context.Background())

		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "dial tcp: connection refused", status.Error)
	})

	t.Run("Disabled", func(t *testing.T) {
		store := mocks.NewCacheStore(t)

		checker := NewCacheStoreHealthChecker(store, ports.CacheConfig{Enabled: false, Type: "memory"})
		status := checker.Check(context.Background())

		assert.Equal(t, "disabled", status.Status)
		store.AssertNotCalled(t, "Ping", mock.Anything)
	})

	t.Run("MissingStore", func(t *testing.T) {
		checker := NewCacheStoreHealthChecker(nil, ports.CacheConfig{Enabled: true, Type: "memcached"})
		status := checker.Check(context.Background())

		assert.Equal(t, "degraded", status.Status)
		assert.NotEmpty(t, status.Error)
	})

	t.Run("PingDeadline", func(t *testing.T) {
		store := mocks.NewCacheStore(t)
		store.On("Ping", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})).Return(nil).Once()

		checker := NewCacheStoreHealthChecker(store, ports.CacheConfig{Enabled: true, Type: "memory"})
		assert.Equal(t, "healthy", checker.Check(context.Background()).Status)
	})
}

func TestMarketProviderHealthChecker(t *testing.T) {
	t.Run("Available", func(t *testing.T) {
		checker := NewMarketProviderHealthChecker("exchange", namedProvider("binance"))
		status := checker.Check(context.Background())

		assert.Equal(t, "exchange", status.Component)
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "binance", status.Details["provider"])
	})

	t.Run("Missing", func(t *testing.T) {
		checker := NewMarketProviderHealthChecker("fiat", nil)
		status := checker.Check(context.Background())

		assert.Equal(t, "unhealthy", status.Status)
		assert.NotEmpty(t, status.Error)
	})
}

type staticChecker ports.HealthStatus

func (s staticChecker) Check(ctx context.Context) ports.HealthStatus { return ports.HealthStatus(s) }

func TestSystemHealthChecker_CheckAll(t *testing.T) {
	configProvider := mocks.NewConfigProvider(t)
	configProvider.On("GetCacheConfig").Return(ports.CacheConfig{Enabled: true, Type: "redis"})
	configProvider.On("GetMarketConfig").Return(ports.MarketConfig{QuoteCurrency: "USD"})

	checker := NewSystemHealthChecker(SystemHealthCheckerConfig{
		Checkers: map[string]ports.HealthChecker{
			"cache":  staticChecker{Component: "cache", Status: "degraded"},
			"crypto": staticChecker{Component: "crypto", Status: "healthy"},
			"unused": nil,
		},
		ConfigProvider: configProvider,
	})

	results := checker.CheckAll(context.Background())

	assert.Len(t, results, 3)
	assert.Equal(t, "degraded", results["cache"].Status)
	assert.Equal(t, "healthy", results["config"].Status)
	assert.Equal(t, "redis", results["config"].Details["cacheStore"])
	assert.Equal(t, "USD", results["config"].Details["quoteCurrency"])
	assert.Equal(t, "degraded", ports.OverallStatus(results))
}
