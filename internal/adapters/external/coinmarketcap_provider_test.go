package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard.app/internal/mocks"
	"dashboard.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coinMarketCapQuotesBody = `{
	"status": {"error_code": 0, "error_message": null},
	"data": {
		"1027": {
			"id": 1027, "name": "Ethereum", "symbol": "ETH", "slug": "ethereum",
			"quote": {"USD": {
				"price": 3400.12, "volume_24h": 1.5e10, "percent_change_1h": 0.1,
				"percent_change_24h": -1.2, "percent_change_7d": 4.5, "market_cap": 4.1e11,
				"last_updated": "2024-03-01T12:00:00.000Z"
			}}
		},
		"1": {
			"id": 1, "name": "Bitcoin", "symbol": "BTC", "slug": "bitcoin",
			"quote": {"USD": {
				"price": 62000.5, "volume_24h": 3.1e10, "percent_change_1h": 0.2,
				"percent_change_24h": 2.4, "percent_change_7d": 9.8, "market_cap": 1.2e12,
				"last_updated": "2024-03-01T12:00:00.000Z"
			}}
		}
	}
}`

func TestCoinMarketCapProvider_GetQuotes_Success(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/cryptocurrency/quotes/latest", r.URL.Path)
		assert.Equal(t, "1,1027", r.URL.Query().Get("id"))
		assert.Equal(t, "USD", r.URL.Query().Get("convert"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-CMC_PRO_API_KEY"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(coinMarketCapQuotesBody))
		assert.NoError(t, err)
	}))
	defer mockServer.Close()

	provider := NewCoinMarketCapProviderAdapter(CoinMarketCapProviderParams{
		APIKey:  "test-api-key",
		BaseURL: mockServer.URL,
		Logger:  mocks.NewPermissiveLogger(t),
	})

	quotes, err := provider.GetQuotes(context.Background(), []int{1, 1027}, "USD")

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 1, quotes[0].ID)
	assert.Equal(t, "BTC", quotes[0].Symbol)
	assert.Equal(t, 62000.5, quotes[0].Price)
	assert.Equal(t, "USD", quotes[0].Currency)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), quotes[0].LastUpdated.UTC())
	assert.Equal(t, 1027, quotes[1].ID)
	assert.Equal(t, -1.2, quotes[1].PercentChange24h)
}

func TestCoinMarketCapProvider_GetQuotes_Validation(t *testing.T) {
	provider := NewCoinMarketCapProviderAdapter(CoinMarketCapProviderParams{
		APIKey: "test-api-key",
		Logger: mocks.NewPermissiveLogger(t),
	})

	_, err := provider.GetQuotes(context.Background(), nil, "USD")
	assert.True(t, errors.IsValidationError(err))

	_, err = provider.GetQuotes(context.Background(), []int{1, -4}, "USD")
	assert.True(t, errors.IsValidationError(err))

	_, err = provider.GetQuotes(context.Background(), []int{1}, "")
	assert.True(t, errors.IsValidationError(err))
}

func TestCoinMarketCapProvider_GetQuotes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType errors.ErrorType
	}{
		{
			name:    "RateLimited",
			status:  http.StatusTooManyRequests,
			body:    `{"status":{"error_code":1008,"error_message":"rate limit"}}`,
			errType: errors.ErrorTypeExternalAPI,
		},
		{
			name:    "BadRequest",
			status:  http.StatusBadRequest,
			body:    `{"status":{"error_code":400,"error_message":"Invalid value for \"id\""}}`,
			errType: errors.ErrorTypeValidation,
		},
		{
			name:    "ErrorCodeWithOK",
			status:  http.StatusOK,
			body:    `{"status":{"error_code":1002,"error_message":"API key missing."}}`,
			errType: errors.ErrorTypeExternalAPI,
		},
		{
			name:    "MalformedBody",
			status:  http.StatusOK,
			body:    `{"data":`,
			errType: errors.ErrorTypeExternalAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer mockServer.Close()

			provider := NewCoinMarketCapProviderAdapter(CoinMarketCapProviderParams{
				APIKey:  "test-api-key",
				BaseURL: mockServer.URL,
				Logger:  mocks.NewPermissiveLogger(t),
			})

			quotes, err := provider.GetQuotes(context.Background(), []int{1}, "USD")

			assert.Nil(t, quotes)
			assert.Equal(t, tt.errType, errors.TypeOf(err))
		})
	}
}

func TestCoinMarketCapProvider_GetQuotes_ContextCancelled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(coinMarketCapQuotesBody))
	}))
	defer mockServer.Close()

	provider := NewCoinMarketCapProviderAdapter(CoinMarketCapProviderParams{
		BaseURL: mockServer.URL,
		Logger:  mocks.NewPermissiveLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.GetQuotes(ctx, []int{1}, "USD")
	assert.True(t, errors.IsExternalAPIError(err))
}

func TestCoinMarketCapProvider_GetProviderName(t *testing.T) {
	provider := NewCoinMarketCapProviderAdapter(CoinMarketCapProviderParams{Logger: mocks.NewPermissiveLogger(t)})
	assert.Equal(t, "coinmarketcap", provider.GetProviderName())
}
