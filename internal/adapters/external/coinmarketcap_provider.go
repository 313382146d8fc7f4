package external

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

const coinMarketCapKeyHeader = "X-CMC_PRO_API_KEY"

// CoinMarketCapProviderAdapter implements CryptoQuoteProvider port for CoinMarketCap
type CoinMarketCapProviderAdapter struct {
	apiKey  string
	baseURL string
	client  HTTPClient
	logger  ports.Logger
}

// CoinMarketCapProviderParams holds parameters for creating CoinMarketCap provider
type CoinMarketCapProviderParams struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  HTTPClient
	Logger  ports.Logger
}

// coinMarketCapQuotesResponse represents /v2/cryptocurrency/quotes/latest keyed by ID
type coinMarketCapQuotesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		Slug   string `json:"slug"`
		Quote  map[string]struct {
			Price            float64   `json:"price"`
			Volume24h        float64   `json:"volume_24h"`
			PercentChange1h  float64   `json:"percent_change_1h"`
			PercentChange24h float64   `json:"percent_change_24h"`
			PercentChange7d  float64   `json:"percent_change_7d"`
			MarketCap        float64   `json:"market_cap"`
			LastUpdated      time.Time `json:"last_updated"`
		} `json:"quote"`
	} `json:"data"`
}

// NewCoinMarketCapProviderAdapter creates a new CoinMarketCap provider adapter
func NewCoinMarketCapProviderAdapter(params CoinMarketCapProviderParams) ports.CryptoQuoteProvider {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://pro-api.coinmarketcap.com"
	}

	client := params.Client
	if client == nil {
		client = newHTTPClient(params.Timeout)
	}

	return &CoinMarketCapProviderAdapter{
		apiKey:  params.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  params.Logger,
	}
}

// GetQuotes retrieves the latest quotes for the given CoinMarketCap IDs, ordered by ID
func (p *CoinMarketCapProviderAdapter) GetQuotes(ctx context.Context, ids []int, convert string) ([]ports.CryptoQuoteData, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("at least one crypto ID is required")
	}
	if convert == "" {
		return nil, errors.NewValidationError("convert currency cannot be empty")
	}

	idParts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid crypto ID: %d", id))
		}
		idParts = append(idParts, strconv.Itoa(id))
	}

	query := url.Values{}
	query.Set("id", strings.Join(idParts, ","))
	query.Set("convert", convert)
	endpoint := fmt.Sprintf("%s/v2/cryptocurrency/quotes/latest?%s", p.baseURL, query.Encode())

	var apiResp coinMarketCapQuotesResponse
	err := fetchJSON(ctx, p.client, p.logger, p.GetProviderName(), endpoint,
		map[string]string{coinMarketCapKeyHeader: p.apiKey}, &apiResp)
	if err != nil {
		return nil, err
	}
	if apiResp.Status.ErrorCode != 0 {
		return nil, errors.NewExternalAPIError(
			fmt.Sprintf("coinmarketcap error %d: %s", apiResp.Status.ErrorCode, apiResp.Status.ErrorMessage), nil)
	}

	quotes := make([]ports.CryptoQuoteData, 0, len(apiResp.Data))
	for _, asset := range apiResp.Data {
		quote, ok := asset.Quote[convert]
		if !ok {
			p.logger.Warn("CoinMarketCap response missing quote currency",
				ports.F("id", asset.ID),
				ports.F("convert", convert))
			continue
		}
		quotes = append(quotes, ports.CryptoQuoteData{
			ID:               asset.ID,
			Name:             asset.Name,
			Symbol:           asset.Symbol,
			Slug:             asset.Slug,
			Currency:         convert,
			Price:            quote.Price,
			PercentChange1h:  quote.PercentChange1h,
			PercentChange24h: quote.PercentChange24h,
			PercentChange7d:  quote.PercentChange7d,
			MarketCap:        quote.MarketCap,
			Volume24h:        quote.Volume24h,
			LastUpdated:      quote.LastUpdated,
		})
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ID < quotes[j].ID })
	return quotes, nil
}

// GetProviderName returns the name of this quote provider
func (p *CoinMarketCapProviderAdapter) GetProviderName() string {
	return "coinmarketcap"
}
