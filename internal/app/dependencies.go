package app

import (
	"fmt"
	"log/slog"

	"dashboard.app/internal/adapters/external"
	"dashboard.app/internal/adapters/infrastructure"
	"dashboard.app/internal/config"
	"dashboard.app/internal/core/cache"
	"dashboard.app/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

type DependencyContainer struct {
	config     *config.Config
	options    DependencyOptions
	store      ports.ManagedCacheStore
	fileLogger *infrastructure.FileLoggerAdapter
	metrics    *infrastructure.PrometheusCacheMetricsAdapter
	cache      *cache.Cache
	ports      *ports.ApplicationPorts
}

// DependencyOptions overrides parts of the wiring, mostly for tests
type DependencyOptions struct {
	// Store replaces the store built from the cache configuration
	Store ports.ManagedCacheStore
	// Registerer receives the cache collectors; the default registry when nil
	Registerer prometheus.Registerer
	// Logger is the application logger; slog's default when nil
	Logger ports.Logger
}

func NewDependencyContainer(cfg *config.Config, opts DependencyOptions) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config:  cfg,
		options: opts,
	}

	if err := container.initializeCache(); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}

	if err := container.initializePorts(); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) logger() ports.Logger {
	if c.options.Logger != nil {
		return c.options.Logger
	}
	return infrastructure.NewSlogLoggerAdapter(nil)
}

func (c *DependencyContainer) initializeCache() error {
	cacheConfig := c.config.Cache
	slog.Info("Initializing response cache...",
		"enabled", cacheConfig.Enabled,
		"type", cacheConfig.Type.String(),
		"single_flight", cacheConfig.SingleFlight)

	c.store = c.options.Store
	if c.store == nil && cacheConfig.Enabled {
		store, err := external.NewCacheStoreFactory().CreateCacheStore(&cacheConfig)
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		c.store = store
	}

	if c.options.Registerer != nil {
		c.metrics = infrastructure.NewPrometheusCacheMetricsAdapterWithRegistry(cacheConfig.Type.String(), c.options.Registerer)
	} else {
		c.metrics = infrastructure.NewPrometheusCacheMetricsAdapter(cacheConfig.Type.String())
	}

	tiers, err := cache.LoadTierTable(cacheConfig.TiersFile)
	if err != nil {
		return fmt.Errorf("load cache tiers: %w", err)
	}

	var store ports.CacheStore
	if c.store != nil {
		store = c.store
	}

	responseCache, err := cache.New(cache.Dependencies{
		Store:   store,
		Tiers:   tiers,
		Config:  infrastructure.NewConfigProviderAdapter(c.config),
		Logger:  c.logger(),
		Metrics: c.metrics,
	})
	if err != nil {
		return fmt.Errorf("create response cache: %w", err)
	}
	c.cache = responseCache

	slog.Info("Response cache initialized", "tiers", responseCache.TierTTLs())
	return nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	logger := c.logger()
	marketConfig := c.config.Market

	// Provider traffic goes to its own file when logging is enabled
	providerLogger := logger
	if marketConfig.EnableLogging && marketConfig.LogFilePath != "" {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(marketConfig.LogFilePath)
		if err != nil {
			slog.Warn("Failed to create file logger, falling back to slog", "error", err)
		} else {
			c.fileLogger = fileLogger
			providerLogger = fileLogger
			slog.Info("File logging enabled", "path", marketConfig.LogFilePath)
		}
	}

	quoteProvider := external.NewCoinMarketCapProviderAdapter(external.CoinMarketCapProviderParams{
		APIKey:  marketConfig.CoinMarketCapAPIKey,
		BaseURL: marketConfig.CoinMarketCapBaseURL,
		Timeout: marketConfig.HTTPTimeout,
		Logger:  logger,
	})
	exchangeProvider := external.NewBinanceProviderAdapter(external.BinanceProviderParams{
		BaseURL: marketConfig.BinanceBaseURL,
		Timeout: marketConfig.HTTPTimeout,
		Logger:  logger,
	})
	fiatProvider := external.NewFrankfurterProviderAdapter(external.FrankfurterProviderParams{
		BaseURL: marketConfig.FrankfurterBaseURL,
		Timeout: marketConfig.HTTPTimeout,
		Logger:  logger,
	})

	if marketConfig.EnableLogging {
		quoteProvider = external.NewCryptoQuoteProviderLoggingDecorator(quoteProvider, providerLogger)
		exchangeProvider = external.NewExchangeDataProviderLoggingDecorator(exchangeProvider, providerLogger)
		fiatProvider = external.NewFiatRateProviderLoggingDecorator(fiatProvider, providerLogger)
		slog.Info("Market provider logging enabled")
	}

	var store ports.CacheStore
	if c.store != nil {
		store = c.store
	}

	c.ports = &ports.ApplicationPorts{
		// Market data
		QuoteProvider:    quoteProvider,
		ExchangeProvider: exchangeProvider,
		FiatProvider:     fiatProvider,

		// Cache
		CacheStore:   store,
		CacheMetrics: c.metrics,

		// Infrastructure
		ConfigProvider: infrastructure.NewConfigProviderAdapter(c.config),
		Logger:         logger,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// Cache returns the response cache shared by all procedures
func (c *DependencyContainer) Cache() *cache.Cache {
	return c.cache
}

// CacheStore returns the store behind the cache, nil when caching is disabled
func (c *DependencyContainer) CacheStore() ports.ManagedCacheStore {
	return c.store
}

// Cleanup releases the cache store and the provider log file
func (c *DependencyContainer) Cleanup() error {
	var firstErr error
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			firstErr = fmt.Errorf("close cache store: %w", err)
		}
	}
	if c.fileLogger != nil {
		if err := c.fileLogger.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close provider log: %w", err)
		}
	}
	return firstErr
}
