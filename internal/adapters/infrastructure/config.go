package infrastructure

import (
	"dashboard.app/internal/config"
	"dashboard.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

// GetServerConfig returns server configuration
func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Port: c.config.Server.Port,
	}
}

// GetCacheConfig returns response cache configuration
func (c *ConfigProviderAdapter) GetCacheConfig() ports.CacheConfig {
	return ports.CacheConfig{
		Enabled:      c.config.Cache.Enabled,
		Type:         c.config.Cache.Type.String(),
		KeyPrefix:    c.config.Cache.KeyPrefix,
		MaxKeyLength: c.config.Cache.MaxKeyLength,
		SingleFlight: c.config.Cache.SingleFlight,
	}
}

// GetMarketConfig returns market data configuration
func (c *ConfigProviderAdapter) GetMarketConfig() ports.MarketConfig {
	return ports.MarketConfig{
		QuoteCurrency:         c.config.Market.QuoteCurrency,
		DefaultOrderBookLimit: c.config.Market.DefaultOrderBookLimit,
		DefaultCandleLimit:    c.config.Market.DefaultCandleLimit,
		HTTPTimeout:           c.config.Market.HTTPTimeout,
		EnableLogging:         c.config.Market.EnableLogging,
	}
}
