package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dashboard.app/internal/adapters/api"
	"dashboard.app/internal/adapters/infrastructure"
	"dashboard.app/internal/config"
	"dashboard.app/internal/core/market"
	"dashboard.app/internal/ports"
	"github.com/gin-gonic/gin"
)

type Application struct {
	config *config.Config

	// Use Cases
	marketUseCase *market.UseCase

	// Adapters
	httpServer *http.Server
	router     *gin.Engine

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	deps, err := NewDependencyContainer(cfg, DependencyOptions{})
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	return NewApplicationWithDependencies(cfg, deps)
}

// NewApplicationWithDependencies creates an application with provided dependencies
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	marketUseCase, err := market.NewUseCase(market.UseCaseDependencies{
		QuoteProvider:    a.ports.QuoteProvider,
		ExchangeProvider: a.ports.ExchangeProvider,
		FiatProvider:     a.ports.FiatProvider,
		Cache:            a.deps.Cache(),
		Config:           a.ports.ConfigProvider,
		Logger:           a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create market use case: %w", err)
	}
	a.marketUseCase = marketUseCase

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	metricsCollector := infrastructure.NewMetricsCollectorAdapter(infrastructure.MetricsCollectorConfig{
		CacheMetrics: a.ports.CacheMetrics,
		Config:       a.ports.ConfigProvider,
		Tiers:        a.deps.Cache(),
		Providers:    a.marketUseCase.GetProviderNames(),
	})

	var pinger infrastructure.StorePinger
	if store := a.deps.CacheStore(); store != nil {
		pinger = store
	}

	systemHealthChecker := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		Checkers: map[string]ports.HealthChecker{
			"cache":    infrastructure.NewCacheStoreHealthChecker(pinger, a.ports.ConfigProvider.GetCacheConfig()),
			"crypto":   infrastructure.NewMarketProviderHealthChecker("crypto", a.ports.QuoteProvider),
			"exchange": infrastructure.NewMarketProviderHealthChecker("exchange", a.ports.ExchangeProvider),
			"fiat":     infrastructure.NewMarketProviderHealthChecker("fiat", a.ports.FiatProvider),
		},
		ConfigProvider: a.ports.ConfigProvider,
	})

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port: a.config.Server.Port,
		},
		MarketUseCase:    a.marketUseCase,
		MetricsCollector: metricsCollector,
		HealthChecker:    systemHealthChecker,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}

	a.router = httpAdapter.GetRouter()

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("Adapters initialized successfully")
	return nil
}

func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting HTTP server", "port", a.config.Server.Port)
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if err := a.deps.Cleanup(); err != nil {
		slog.Warn("Error releasing resources", "error", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.router
}

// GetMarketUseCase returns the market use case for testing
func (a *Application) GetMarketUseCase() *market.UseCase {
	return a.marketUseCase
}
