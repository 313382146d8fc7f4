package ports

import (
	"time"
)

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int
}

// CacheConfig represents response cache configuration
type CacheConfig struct {
	Enabled      bool
	Type         string
	KeyPrefix    string
	MaxKeyLength int
	SingleFlight bool
}

// MarketConfig represents market data configuration
type MarketConfig struct {
	QuoteCurrency         string
	DefaultOrderBookLimit int
	DefaultCandleLimit    int
	HTTPTimeout           time.Duration
	EnableLogging         bool
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetServerConfig() ServerConfig
	GetCacheConfig() CacheConfig
	GetMarketConfig() MarketConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
