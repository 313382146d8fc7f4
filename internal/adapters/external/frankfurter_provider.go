package external

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

// FrankfurterProviderAdapter implements FiatRateProvider port for the Frankfurter ECB rates API
type FrankfurterProviderAdapter struct {
	baseURL string
	client  HTTPClient
	logger  ports.Logger
}

// FrankfurterProviderParams holds parameters for creating Frankfurter provider
type FrankfurterProviderParams struct {
	BaseURL string
	Timeout time.Duration
	Client  HTTPClient
	Logger  ports.Logger
}

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewFrankfurterProviderAdapter creates a new Frankfurter provider adapter
func NewFrankfurterProviderAdapter(params FrankfurterProviderParams) ports.FiatRateProvider {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://api.frankfurter.app"
	}

	client := params.Client
	if client == nil {
		client = newHTTPClient(params.Timeout)
	}

	return &FrankfurterProviderAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  params.Logger,
	}
}

// GetRates retrieves the latest rates of symbols against base; no symbols means every currency
func (p *FrankfurterProviderAdapter) GetRates(ctx context.Context, base string, symbols []string) (*ports.FiatRatesData, error) {
	if base == "" {
		return nil, errors.NewValidationError("base currency cannot be empty")
	}

	query := url.Values{}
	query.Set("from", base)
	if len(symbols) > 0 {
		query.Set("to", strings.Join(symbols, ","))
	}
	endpoint := fmt.Sprintf("%s/latest?%s", p.baseURL, query.Encode())

	var apiResp frankfurterResponse
	if err := fetchJSON(ctx, p.client, p.logger, p.GetProviderName(), endpoint, nil, &apiResp); err != nil {
		return nil, err
	}

	rates := apiResp.Rates
	if rates == nil {
		rates = map[string]float64{}
	}

	return &ports.FiatRatesData{
		Base:  apiResp.Base,
		Date:  apiResp.Date,
		Rates: rates,
	}, nil
}

// GetProviderName returns the name of this rate provider
func (p *FrankfurterProviderAdapter) GetProviderName() string {
	return "frankfurter"
}
