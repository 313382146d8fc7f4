// Package external provides adapters for external services
// These adapters implement ports for market data providers and cache stores.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
)

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchJSON performs a GET against url and decodes a 200 response into out.
// Non-200 statuses map onto AppError types the API layer understands.
func fetchJSON(ctx context.Context, client HTTPClient, logger ports.Logger, provider, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to build %s request", provider), err)
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewExternalAPIError(fmt.Sprintf("failed to call %s", provider), err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close provider response body",
				ports.F("provider", provider),
				ports.F("error", closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		message := fmt.Sprintf("%s returned status %d", provider, resp.StatusCode)
		if len(body) > 0 {
			message = fmt.Sprintf("%s: %s", message, body)
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFoundError(message)
		case http.StatusBadRequest:
			return errors.NewValidationError(message)
		default:
			return errors.NewExternalAPIError(message, nil)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewExternalAPIError(fmt.Sprintf("failed to decode %s response", provider), err)
	}
	return nil
}
