package config

import (
	"fmt"
	"strings"
	"time"

	"dashboard.app/pkg/errors"
	"github.com/kelseyhightower/envconfig"
)

const (
	maxRedisDB          = 15
	maxPortNumber       = 65535
	maxMemcachedKeySize = 250
	minMaxKeyLength     = 64
	maxOrderBookLimit   = 5000
	maxCandleLimit      = 1000
)

// Config represents the application configuration structure
type Config struct {
	Server ServerConfig `split_words:"true"`
	Cache  CacheConfig  `split_words:"true"`
	Market MarketConfig `split_words:"true"`
	Log    LogConfig    `split_words:"true"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// CacheType represents the type of cache store to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
	CacheTypeMemcached
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	case CacheTypeMemcached:
		return "memcached"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis || c == CacheTypeMemcached
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	case "memcached":
		return CacheTypeMemcached
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Enabled      bool            `envconfig:"CACHE_ENABLED" default:"true"`
	Type         CacheType       `envconfig:"CACHE_TYPE" default:"memory"`
	KeyPrefix    string          `envconfig:"CACHE_KEY_PREFIX" default:"dashboard:"`
	MaxKeyLength int             `envconfig:"CACHE_MAX_KEY_LENGTH" default:"200"`
	SingleFlight bool            `envconfig:"CACHE_SINGLE_FLIGHT" default:"false"`
	TiersFile    string          `envconfig:"CACHE_TIERS_FILE"`
	Redis        RedisConfig     `split_words:"true"`
	Memcached    MemcachedConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

type MemcachedConfig struct {
	Servers      []string `envconfig:"MEMCACHED_SERVERS" default:"localhost:11211"`
	TimeoutMs    int      `envconfig:"MEMCACHED_TIMEOUT_MS" default:"500"`
	MaxIdleConns int      `envconfig:"MEMCACHED_MAX_IDLE_CONNS" default:"4"`
}

type MarketConfig struct {
	CoinMarketCapAPIKey   string        `envconfig:"COINMARKETCAP_API_KEY"`
	CoinMarketCapBaseURL  string        `envconfig:"COINMARKETCAP_BASE_URL" default:"https://pro-api.coinmarketcap.com"`
	BinanceBaseURL        string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
	FrankfurterBaseURL    string        `envconfig:"FRANKFURTER_BASE_URL" default:"https://api.frankfurter.app"`
	QuoteCurrency         string        `envconfig:"MARKET_QUOTE_CURRENCY" default:"USD"`
	DefaultOrderBookLimit int           `envconfig:"MARKET_ORDER_BOOK_LIMIT" default:"100"`
	DefaultCandleLimit    int           `envconfig:"MARKET_CANDLE_LIMIT" default:"500"`
	HTTPTimeout           time.Duration `envconfig:"MARKET_HTTP_TIMEOUT" default:"10s"`
	EnableLogging         bool          `envconfig:"MARKET_ENABLE_LOGGING" default:"true"`
	LogFilePath           string        `envconfig:"MARKET_LOG_FILE_PATH" default:"logs/market_providers.log"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Market.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis, memcached", nil)
	}
	if c.MaxKeyLength != 0 && c.MaxKeyLength < minMaxKeyLength {
		return errors.NewConfigurationError(
			fmt.Sprintf("CACHE_MAX_KEY_LENGTH must be 0 or at least %d", minMaxKeyLength), nil)
	}
	if strings.ContainsAny(c.KeyPrefix, " \t\r\n") {
		return errors.NewConfigurationError("CACHE_KEY_PREFIX cannot contain whitespace", nil)
	}

	switch c.Type {
	case CacheTypeRedis:
		return c.Redis.Validate()
	case CacheTypeMemcached:
		if c.MaxKeyLength == 0 || c.MaxKeyLength > maxMemcachedKeySize {
			return errors.NewConfigurationError("CACHE_MAX_KEY_LENGTH must be between 64 and 250 when using memcached", nil)
		}
		return c.Memcached.Validate()
	}

	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (m *MemcachedConfig) Validate() error {
	if len(m.Servers) == 0 {
		return errors.NewConfigurationError("MEMCACHED_SERVERS cannot be empty when using memcached", nil)
	}
	for _, server := range m.Servers {
		if strings.TrimSpace(server) == "" {
			return errors.NewConfigurationError("MEMCACHED_SERVERS contains an empty address", nil)
		}
	}
	if m.TimeoutMs < 1 {
		return errors.NewConfigurationError("MEMCACHED_TIMEOUT_MS must be at least 1", nil)
	}
	if m.MaxIdleConns < 1 {
		return errors.NewConfigurationError("MEMCACHED_MAX_IDLE_CONNS must be at least 1", nil)
	}
	return nil
}

func (m *MarketConfig) Validate() error {
	urls := map[string]string{
		"COINMARKETCAP_BASE_URL": m.CoinMarketCapBaseURL,
		"BINANCE_BASE_URL":       m.BinanceBaseURL,
		"FRANKFURTER_BASE_URL":   m.FrankfurterBaseURL,
	}
	for name, url := range urls {
		if url == "" {
			return errors.NewConfigurationError(fmt.Sprintf("%s cannot be empty", name), nil)
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return errors.NewConfigurationError(fmt.Sprintf("%s must start with http:// or https://", name), nil)
		}
	}

	if len(m.QuoteCurrency) != 3 || strings.ToUpper(m.QuoteCurrency) != m.QuoteCurrency {
		return errors.NewConfigurationError("MARKET_QUOTE_CURRENCY must be a three-letter upper-case code", nil)
	}
	if m.DefaultOrderBookLimit < 1 || m.DefaultOrderBookLimit > maxOrderBookLimit {
		return errors.NewConfigurationError("MARKET_ORDER_BOOK_LIMIT must be between 1 and 5000", nil)
	}
	if m.DefaultCandleLimit < 1 || m.DefaultCandleLimit > maxCandleLimit {
		return errors.NewConfigurationError("MARKET_CANDLE_LIMIT must be between 1 and 1000", nil)
	}
	if m.HTTPTimeout <= 0 {
		return errors.NewConfigurationError("MARKET_HTTP_TIMEOUT must be positive", nil)
	}
	if m.EnableLogging && m.LogFilePath == "" {
		return errors.NewConfigurationError("MARKET_LOG_FILE_PATH cannot be empty when MARKET_ENABLE_LOGGING is set", nil)
	}
	return nil
}

func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", nil)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return errors.NewConfigurationError("LOG_FORMAT must be one of: json, text", nil)
	}
	return nil
}
