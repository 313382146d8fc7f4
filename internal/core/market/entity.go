package market

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dashboard.app/pkg/validation"
)

const (
	MaxCryptoIDs       = 100
	MaxOrderBookLimit  = 5000
	MaxCandleLimit     = 1000
	MaxFiatSymbols     = 40
	defaultQuoteSymbol = "USD"
)

// CryptoInfo represents the latest quote of a crypto asset
type CryptoInfo struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Symbol           string    `json:"symbol"`
	Slug             string    `json:"slug"`
	Currency         string    `json:"currency"`
	Price            float64   `json:"price"`
	PercentChange1h  float64   `json:"percentChange1h"`
	PercentChange24h float64   `json:"percentChange24h"`
	PercentChange7d  float64   `json:"percentChange7d"`
	MarketCap        float64   `json:"marketCap"`
	Volume24h        float64   `json:"volume24h"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// PriceLevel is one row of an order book side
type PriceLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBook represents an exchange order book snapshot
type OrderBook struct {
	Symbol       string       `json:"symbol"`
	LastUpdateID int64        `json:"lastUpdateId"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// Candle represents one OHLCV bar
type Candle struct {
	OpenTime  time.Time `json:"openTime"`
	CloseTime time.Time `json:"closeTime"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// FiatRates represents exchange rates against a base currency
type FiatRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// CryptoInfosRequest asks for quotes of a set of listing IDs
type CryptoInfosRequest struct {
	IDs     []int  `json:"ids"`
	Convert string `json:"convert"`
}

// OrderBookRequest asks for the order book of a trading pair
type OrderBookRequest struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

// OHLCVRequest asks for candles of a trading pair
type OHLCVRequest struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Limit    int    `json:"limit"`
}

// FiatRatesRequest asks for rates of symbols against base; no symbols means all
type FiatRatesRequest struct {
	Base    string   `json:"base"`
	Symbols []string `json:"symbols"`
}

// Normalize deduplicates and sorts IDs and upper-cases the quote currency
func (r *CryptoInfosRequest) Normalize(defaultConvert string) {
	seen := make(map[int]bool, len(r.IDs))
	ids := make([]int, 0, len(r.IDs))
	for _, id := range r.IDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	r.IDs = ids

	r.Convert = strings.ToUpper(strings.TrimSpace(r.Convert))
	if r.Convert == "" {
		r.Convert = strings.ToUpper(defaultConvert)
	}
	if r.Convert == "" {
		r.Convert = defaultQuoteSymbol
	}
}

// IsValid validates crypto infos request
func (r *CryptoInfosRequest) IsValid() error {
	if len(r.IDs) == 0 {
		return fmt.Errorf("at least one id is required")
	}
	if len(r.IDs) > MaxCryptoIDs {
		return fmt.Errorf("at most %d ids are allowed", MaxCryptoIDs)
	}
	for _, id := range r.IDs {
		if id <= 0 {
			return fmt.Errorf("id must be positive, got %d", id)
		}
	}
	if !validation.IsValidCurrency(r.Convert) {
		return fmt.Errorf("invalid quote currency %q", r.Convert)
	}
	return nil
}

// Normalize upper-cases the symbol and applies the default depth
func (r *OrderBookRequest) Normalize(defaultLimit int) {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

// IsValid validates order book request
func (r *OrderBookRequest) IsValid() error {
	if !validation.IsValidSymbol(r.Symbol) {
		return fmt.Errorf("invalid symbol %q", r.Symbol)
	}
	if r.Limit < 1 || r.Limit > MaxOrderBookLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxOrderBookLimit)
	}
	return nil
}

// Normalize upper-cases the symbol and applies the default candle count
func (r *OHLCVRequest) Normalize(defaultLimit int) {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.Interval = strings.TrimSpace(r.Interval)
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

// IsValid validates OHLCV request
func (r *OHLCVRequest) IsValid() error {
	if !validation.IsValidSymbol(r.Symbol) {
		return fmt.Errorf("invalid symbol %q", r.Symbol)
	}
	if !validation.IsValidInterval(r.Interval) {
		return fmt.Errorf("invalid interval %q", r.Interval)
	}
	if r.Limit < 1 || r.Limit > MaxCandleLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxCandleLimit)
	}
	return nil
}

// Normalize upper-cases currencies, drops the base from symbols and sorts them
func (r *FiatRatesRequest) Normalize() {
	r.Base = strings.ToUpper(strings.TrimSpace(r.Base))

	seen := make(map[string]bool, len(r.Symbols))
	symbols := make([]string, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || s == r.Base || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	r.Symbols = symbols
}

// IsValid validates fiat rates request
func (r *FiatRatesRequest) IsValid() error {
	if !validation.IsValidCurrency(r.Base) {
		return fmt.Errorf("invalid base currency %q", r.Base)
	}
	if len(r.Symbols) > MaxFiatSymbols {
		return fmt.Errorf("at most %d symbols are allowed", MaxFiatSymbols)
	}
	for _, s := range r.Symbols {
		if !validation.IsValidCurrency(s) {
			return fmt.Errorf("invalid currency %q", s)
		}
	}
	return nil
}

// BestBid returns the highest bid, false when the side is empty
func (o *OrderBook) BestBid() (PriceLevel, bool) {
	if len(o.Bids) == 0 {
		return PriceLevel{}, false
	}
	return o.Bids[0], true
}

// BestAsk returns the lowest ask, false when the side is empty
func (o *OrderBook) BestAsk() (PriceLevel, bool) {
	if len(o.Asks) == 0 {
		return PriceLevel{}, false
	}
	return o.Asks[0], true
}

// Spread returns best ask minus best bid, or 0 when either side is empty
func (o *OrderBook) Spread() float64 {
	bid, okBid := o.BestBid()
	ask, okAsk := o.BestAsk()
	if !okBid || !okAsk {
		return 0
	}
	return ask.Price - bid.Price
}

// IsValid checks the bar's prices are consistent
func (c *Candle) IsValid() error {
	if c.High < c.Low {
		return fmt.Errorf("high %.8f is below low %.8f", c.High, c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("volume cannot be negative")
	}
	if c.CloseTime.Before(c.OpenTime) {
		return fmt.Errorf("close time is before open time")
	}
	return nil
}

// ChangePercent returns the close-over-open change in percent
func (c *Candle) ChangePercent() float64 {
	if c.Open == 0 {
		return 0
	}
	return (c.Close - c.Open) / c.Open * 100
}
