// Package ports defines the interfaces for external dependencies in our hexagonal architecture.
// These interfaces are implemented by adapters and mocked for testing.
package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Market data
	QuoteProvider    CryptoQuoteProvider
	ExchangeProvider ExchangeDataProvider
	FiatProvider     FiatRateProvider

	// Cache
	CacheStore   CacheStore
	CacheMetrics CacheMetrics

	// Infrastructure
	ConfigProvider ConfigProvider
	Logger         Logger
}
