package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

// BinanceProviderAdapter implements ExchangeDataProvider port for the Binance public API
type BinanceProviderAdapter struct {
	baseURL string
	client  HTTPClient
	logger  ports.Logger
}

// BinanceProviderParams holds parameters for creating Binance provider
type BinanceProviderParams struct {
	BaseURL string
	Timeout time.Duration
	Client  HTTPClient
	Logger  ports.Logger
}

// binanceDepthResponse represents /api/v3/depth; levels are [price, quantity] decimal strings
type binanceDepthResponse struct {
	LastUpdateID int64       `json:"lastUpdateId"`
	Bids         [][2]string `json:"bids"`
	Asks         [][2]string `json:"asks"`
}

// NewBinanceProviderAdapter creates a new Binance provider adapter
func NewBinanceProviderAdapter(params BinanceProviderParams) ports.ExchangeDataProvider {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}

	client := params.Client
	if client == nil {
		client = newHTTPClient(params.Timeout)
	}

	return &BinanceProviderAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  params.Logger,
	}
}

// GetOrderBook retrieves an order book snapshot for symbol
func (p *BinanceProviderAdapter) GetOrderBook(ctx context.Context, symbol string, limit int) (*ports.OrderBookData, error) {
	if symbol == "" {
		return nil, errors.NewValidationError("symbol cannot be empty")
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("order book limit must be positive")
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/api/v3/depth?%s", p.baseURL, query.Encode())

	var apiResp binanceDepthResponse
	if err := fetchJSON(ctx, p.client, p.logger, p.GetProviderName(), endpoint, nil, &apiResp); err != nil {
		return nil, err
	}

	bids, err := parsePriceLevels(apiResp.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := parsePriceLevels(apiResp.Asks)
	if err != nil {
		return nil, err
	}

	return &ports.OrderBookData{
		Symbol:       symbol,
		LastUpdateID: apiResp.LastUpdateID,
		Bids:         bids,
		Asks:         asks,
	}, nil
}

// GetCandles retrieves OHLCV bars for symbol at interval, oldest first
func (p *BinanceProviderAdapter) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]ports.CandleData, error) {
	if symbol == "" {
		return nil, errors.NewValidationError("symbol cannot be empty")
	}
	if interval == "" {
		return nil, errors.NewValidationError("interval cannot be empty")
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("candle limit must be positive")
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("interval", interval)
	query.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/api/v3/klines?%s", p.baseURL, query.Encode())

	var rows [][]json.RawMessage
	if err := fetchJSON(ctx, p.client, p.logger, p.GetProviderName(), endpoint, nil, &rows); err != nil {
		return nil, err
	}

	candles := make([]ports.CandleData, 0, len(rows))
	for i, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return nil, errors.NewExternalAPIError(fmt.Sprintf("malformed binance kline at index %d", i), err)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// GetProviderName returns the name of this exchange provider
func (p *BinanceProviderAdapter) GetProviderName() string {
	return "binance"
}

func parsePriceLevels(levels [][2]string) ([]ports.PriceLevelData, error) {
	out := make([]ports.PriceLevelData, 0, len(levels))
	for _, level := range levels {
		price, err := strconv.ParseFloat(level[0], 64)
		if err != nil {
			return nil, errors.NewExternalAPIError("malformed binance price level", err)
		}
		quantity, err := strconv.ParseFloat(level[1], 64)
		if err != nil {
			return nil, errors.NewExternalAPIError("malformed binance price level", err)
		}
		out = append(out, ports.PriceLevelData{Price: price, Quantity: quantity})
	}
	return out, nil
}

// parseKline reads [openTime, open, high, low, close, volume, closeTime, ...]
func parseKline(row []json.RawMessage) (ports.CandleData, error) {
	if len(row) < 7 {
		return ports.CandleData{}, fmt.Errorf("expected at least 7 fields, got %d", len(row))
	}

	var openTime, closeTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return ports.CandleData{}, fmt.Errorf("open time: %w", err)
	}
	if err := json.Unmarshal(row[6], &closeTime); err != nil {
		return ports.CandleData{}, fmt.Errorf("close time: %w", err)
	}

	values := make([]float64, 5)
	for i := range values {
		var text string
		if err := json.Unmarshal(row[i+1], &text); err != nil {
			return ports.CandleData{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ports.CandleData{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}

	return ports.CandleData{
		OpenTime:  time.UnixMilli(openTime).UTC(),
		CloseTime: time.UnixMilli(closeTime).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
