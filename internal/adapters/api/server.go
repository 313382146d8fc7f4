// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"fmt"
	"net/http"

	"dashboard.app/internal/core/market"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port int
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router           *gin.Engine
	config           ServerConfig
	marketUseCase    MarketUseCase
	metricsCollector MetricsCollector
	healthChecker    ports.SystemHealthChecker
}

// MarketUseCase is the market data use case the HTTP adapter depends on
type MarketUseCase interface {
	GetCryptoInfos(ctx context.Context, request market.CryptoInfosRequest) ([]market.CryptoInfo, error)
	GetOrderBook(ctx context.Context, request market.OrderBookRequest) (*market.OrderBook, error)
	GetOHLCV(ctx context.Context, request market.OHLCVRequest) ([]market.Candle, error)
	GetFiatRates(ctx context.Context, request market.FiatRatesRequest) (*market.FiatRates, error)
}

type MetricsCollector interface {
	GetMetrics(ctx context.Context) (map[string]interface{}, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config           ServerConfig
	MarketUseCase    MarketUseCase
	MetricsCollector MetricsCollector
	HealthChecker    ports.SystemHealthChecker
	// MetricsHandler serves /metrics; the default Prometheus registry when nil
	MetricsHandler http.Handler
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}
	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.Use(requestIDMiddleware(), gin.Logger(), gin.Recovery())

	server := &HTTPServerAdapter{
		router:           router,
		config:           opts.Config,
		marketUseCase:    opts.MarketUseCase,
		metricsCollector: opts.MetricsCollector,
		healthChecker:    opts.HealthChecker,
	}

	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	server.setupRoutes(metricsHandler)
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.MarketUseCase == nil {
		return errors.NewValidationError("market use case is required")
	}
	if opts.MetricsCollector == nil {
		return errors.NewValidationError("metrics collector is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	return nil
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes(metricsHandler http.Handler) {
	api := s.router.Group("/api")
	{
		crypto := api.Group("/crypto")
		crypto.GET("/infos", s.getCryptoInfos)
		crypto.GET("/orderbook", s.getOrderBook)
		crypto.GET("/ohlcv", s.getOHLCV)

		api.GET("/fiat/rates", s.getFiatRates)
		api.GET("/metrics", s.getMetrics)
	}

	s.router.GET("/health", s.getHealth)
	s.router.GET("/metrics", gin.WrapH(metricsHandler))
}

// GetRouter returns the router for serving and testing
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
