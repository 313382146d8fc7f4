package infrastructure

import (
	"testing"
	"time"

	"dashboard.app/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigProviderAdapter(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Cache: config.CacheConfig{
			Enabled:      true,
			Type:         config.CacheTypeRedis,
			KeyPrefix:    "dashboard:",
			MaxKeyLength: 200,
			SingleFlight: true,
		},
		Market: config.MarketConfig{
			QuoteCurrency:         "EUR",
			DefaultOrderBookLimit: 50,
			DefaultCandleLimit:    300,
			HTTPTimeout:           5 * time.Second,
			EnableLogging:         true,
		},
	}

	provider := NewConfigProviderAdapter(cfg)

	assert.Equal(t, 8080, provider.GetServerConfig().Port)
	assert.Equal(t, config.CacheTypeRedis.String(), provider.GetCacheConfig().Type)
	assert.Equal(t, "dashboard:", provider.GetCacheConfig().KeyPrefix)
	assert.True(t, provider.GetCacheConfig().SingleFlight)
	assert.Equal(t, 200, provider.GetCacheConfig().MaxKeyLength)
	assert.Equal(t, "EUR", provider.GetMarketConfig().QuoteCurrency)
	assert.Equal(t, 50, provider.GetMarketConfig().DefaultOrderBookLimit)
	assert.Equal(t, 300, provider.GetMarketConfig().DefaultCandleLimit)
	assert.Equal(t, 5*time.Second, provider.GetMarketConfig().HTTPTimeout)
}
