package ports

import (
	"context"
	"time"
)

// CryptoQuoteData represents a crypto asset quote returned by a listing provider
type CryptoQuoteData struct {
	ID               int
	Name             string
	Symbol           string
	Slug             string
	Currency         string
	Price            float64
	PercentChange1h  float64
	PercentChange24h float64
	PercentChange7d  float64
	MarketCap        float64
	Volume24h        float64
	LastUpdated      time.Time
}

// PriceLevelData represents one side entry of an order book
type PriceLevelData struct {
	Price    float64
	Quantity float64
}

// OrderBookData represents an order book snapshot
type OrderBookData struct {
	Symbol       string
	LastUpdateID int64
	Bids         []PriceLevelData
	Asks         []PriceLevelData
}

// CandleData represents one OHLCV bar
type CandleData struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// FiatRatesData represents exchange rates against a base currency
type FiatRatesData struct {
	Base  string
	Date  string
	Rates map[string]float64
}

// CryptoQuoteProvider defines the contract for crypto listing/quote providers
type CryptoQuoteProvider interface {
	GetQuotes(ctx context.Context, ids []int, convert string) ([]CryptoQuoteData, error)
	GetProviderName() string
}

// ExchangeDataProvider defines the contract for exchange market data providers
type ExchangeDataProvider interface {
	GetOrderBook(ctx context.Context, symbol string, limit int) (*OrderBookData, error)
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]CandleData, error)
	GetProviderName() string
}

// FiatRateProvider defines the contract for fiat/forex rate providers
type FiatRateProvider interface {
	GetRates(ctx context.Context, base string, symbols []string) (*FiatRatesData, error)
	GetProviderName() string
}
