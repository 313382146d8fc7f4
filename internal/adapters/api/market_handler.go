package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"dashboard.app/internal/core/market"
	"dashboard.app/pkg/errors"
	"dashboard.app/pkg/validation"
	"github.com/gin-gonic/gin"
)

// CryptoInfosQuery represents the query of GET /api/crypto/infos
type CryptoInfosQuery struct {
	IDs     string `form:"ids" binding:"required"`
	Convert string `form:"convert" binding:"omitempty,currency"`
}

// OrderBookQuery represents the query of GET /api/crypto/orderbook
type OrderBookQuery struct {
	Symbol string `form:"symbol" binding:"required"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=5000"`
}

// OHLCVQuery represents the query of GET /api/crypto/ohlcv
type OHLCVQuery struct {
	Symbol   string `form:"symbol" binding:"required"`
	Interval string `form:"interval" binding:"required,interval"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// FiatRatesQuery represents the query of GET /api/fiat/rates
type FiatRatesQuery struct {
	Base    string `form:"base" binding:"required,currency"`
	Symbols string `form:"symbols"`
}

// OrderBookResponse is an order book with its top-of-book summary
type OrderBookResponse struct {
	*market.OrderBook
	BestBid *market.PriceLevel `json:"bestBid,omitempty"`
	BestAsk *market.PriceLevel `json:"bestAsk,omitempty"`
	Spread  float64            `json:"spread"`
}

// CandleResponse is a candle with its close-over-open change
type CandleResponse struct {
	market.Candle
	ChangePercent float64 `json:"changePercent"`
}

func newOrderBookResponse(book *market.OrderBook) OrderBookResponse {
	response := OrderBookResponse{OrderBook: book, Spread: book.Spread()}
	if bid, ok := book.BestBid(); ok {
		response.BestBid = &bid
	}
	if ask, ok := book.BestAsk(); ok {
		response.BestAsk = &ask
	}
	return response
}

func newCandleResponses(candles []market.Candle) []CandleResponse {
	out := make([]CandleResponse, 0, len(candles))
	for i := range candles {
		out = append(out, CandleResponse{
			Candle:        candles[i],
			ChangePercent: candles[i].ChangePercent(),
		})
	}
	return out
}

// getCryptoInfos handles GET /api/crypto/infos requests
func (s *HTTPServerAdapter) getCryptoInfos(c *gin.Context) {
	var query CryptoInfosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.Debug("Request binding error", "error", err)
		s.handleError(c, errors.NewValidationError(bindingMessage(err)))
		return
	}

	ids, err := parseIDs(query.IDs)
	if err != nil {
		s.handleError(c, err)
		return
	}

	infos, err := s.marketUseCase.GetCryptoInfos(c.Request.Context(), market.CryptoInfosRequest{
		IDs:     ids,
		Convert: query.Convert,
	})
	if err != nil {
		slog.Error("Crypto infos use case error", "error", err, "ids", query.IDs)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, infos)
}

// getOrderBook handles GET /api/crypto/orderbook requests
func (s *HTTPServerAdapter) getOrderBook(c *gin.Context) {
	var query OrderBookQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.Debug("Request binding error", "error", err)
		s.handleError(c, errors.NewValidationError(bindingMessage(err)))
		return
	}

	book, err := s.marketUseCase.GetOrderBook(c.Request.Context(), market.OrderBookRequest{
		Symbol: query.Symbol,
		Limit:  query.Limit,
	})
	if err != nil {
		slog.Error("Order book use case error", "error", err, "symbol", query.Symbol)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newOrderBookResponse(book))
}

// getOHLCV handles GET /api/crypto/ohlcv requests
func (s *HTTPServerAdapter) getOHLCV(c *gin.Context) {
	var query OHLCVQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.Debug("Request binding error", "error", err)
		s.handleError(c, errors.NewValidationError(bindingMessage(err)))
		return
	}

	candles, err := s.marketUseCase.GetOHLCV(c.Request.Context(), market.OHLCVRequest{
		Symbol:   query.Symbol,
		Interval: query.Interval,
		Limit:    query.Limit,
	})
	if err != nil {
		slog.Error("OHLCV use case error", "error", err, "symbol", query.Symbol, "interval", query.Interval)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCandleResponses(candles))
}

// getFiatRates handles GET /api/fiat/rates requests
func (s *HTTPServerAdapter) getFiatRates(c *gin.Context) {
	var query FiatRatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.Debug("Request binding error", "error", err)
		s.handleError(c, errors.NewValidationError(bindingMessage(err)))
		return
	}

	rates, err := s.marketUseCase.GetFiatRates(c.Request.Context(), market.FiatRatesRequest{
		Base:    query.Base,
		Symbols: validation.SplitList(query.Symbols),
	})
	if err != nil {
		slog.Error("Fiat rates use case error", "error", err, "base", query.Base)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rates)
}

// parseIDs parses a comma separated list of listing IDs
func parseIDs(raw string) ([]int, error) {
	parts := validation.SplitList(raw)
	if len(parts) == 0 {
		return nil, errors.NewValidationError("ids parameter is required")
	}

	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.NewValidationError("ids must be a comma separated list of integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
