// Package market serves the dashboard's market-data procedures. Every
// procedure is wrapped once in the response cache under its own identifier
// and tier.
package market

import (
	"context"
	"fmt"

	"dashboard.app/internal/core/cache"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
)

// Procedure identifiers; each is part of the cache key of its results
const (
	ProcedureCryptoInfos = "getCryptoInfos"
	ProcedureOrderBook   = "getOrderBook"
	ProcedureOHLCV       = "getOHLCV"
	ProcedureFiatRates   = "getFiatRates"
)

// Procedures maps every procedure identifier to the tier its results are cached in
func Procedures() map[string]cache.Tier {
	return map[string]cache.Tier{
		ProcedureCryptoInfos: cache.TierSecondsMedium,
		ProcedureOrderBook:   cache.TierSecondsShort,
		ProcedureOHLCV:       cache.TierMinutesShort,
		ProcedureFiatRates:   cache.TierHoursShort,
	}
}

type UseCase struct {
	quoteProvider    ports.CryptoQuoteProvider
	exchangeProvider ports.ExchangeDataProvider
	fiatProvider     ports.FiatRateProvider
	config           ports.ConfigProvider
	logger           ports.Logger

	cryptoInfos cache.Handler[CryptoInfosRequest, []CryptoInfo]
	orderBook   cache.Handler[OrderBookRequest, *OrderBook]
	ohlcv       cache.Handler[OHLCVRequest, []Candle]
	fiatRates   cache.Handler[FiatRatesRequest, *FiatRates]
}

type UseCaseDependencies struct {
	QuoteProvider    ports.CryptoQuoteProvider
	ExchangeProvider ports.ExchangeDataProvider
	FiatProvider     ports.FiatRateProvider
	Cache            *cache.Cache
	Config           ports.ConfigProvider
	Logger           ports.Logger
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.QuoteProvider == nil {
		return nil, errors.NewValidationError("quote provider is required")
	}
	if deps.ExchangeProvider == nil {
		return nil, errors.NewValidationError("exchange provider is required")
	}
	if deps.FiatProvider == nil {
		return nil, errors.NewValidationError("fiat provider is required")
	}
	if deps.Cache == nil {
		return nil, errors.NewValidationError("cache is required")
	}
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	uc := &UseCase{
		quoteProvider:    deps.QuoteProvider,
		exchangeProvider: deps.ExchangeProvider,
		fiatProvider:     deps.FiatProvider,
		config:           deps.Config,
		logger:           deps.Logger,
	}

	tiers := Procedures()
	var err error
	if uc.cryptoInfos, err = cache.Wrap(deps.Cache, ProcedureCryptoInfos, tiers[ProcedureCryptoInfos], uc.fetchCryptoInfos); err != nil {
		return nil, err
	}
	if uc.orderBook, err = cache.Wrap(deps.Cache, ProcedureOrderBook, tiers[ProcedureOrderBook], uc.fetchOrderBook); err != nil {
		return nil, err
	}
	if uc.ohlcv, err = cache.Wrap(deps.Cache, ProcedureOHLCV, tiers[ProcedureOHLCV], uc.fetchOHLCV); err != nil {
		return nil, err
	}
	if uc.fiatRates, err = cache.Wrap(deps.Cache, ProcedureFiatRates, tiers[ProcedureFiatRates], uc.fetchFiatRates); err != nil {
		return nil, err
	}

	return uc, nil
}

// GetCryptoInfos returns the latest quotes for the requested listing IDs
func (uc *UseCase) GetCryptoInfos(ctx context.Context, request CryptoInfosRequest) ([]CryptoInfo, error) {
	request.Normalize(uc.config.GetMarketConfig().QuoteCurrency)
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid crypto infos request: " + err.Error())
	}

	infos, err := uc.cryptoInfos(ctx, request)
	if err != nil {
		uc.logger.Error("Failed to get crypto infos",
			ports.F("ids", request.IDs),
			ports.F("error", err))
		return nil, fmt.Errorf("get crypto infos: %w", err)
	}
	return infos, nil
}

// GetOrderBook returns the order book of a trading pair
func (uc *UseCase) GetOrderBook(ctx context.Context, request OrderBookRequest) (*OrderBook, error) {
	request.Normalize(uc.config.GetMarketConfig().DefaultOrderBookLimit)
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid order book request: " + err.Error())
	}

	book, err := uc.orderBook(ctx, request)
	if err != nil {
		uc.logger.Error("Failed to get order book",
			ports.F("symbol", request.Symbol),
			ports.F("error", err))
		return nil, fmt.Errorf("get order book for %s: %w", request.Symbol, err)
	}
	return book, nil
}

// GetOHLCV returns candles of a trading pair
func (uc *UseCase) GetOHLCV(ctx context.Context, request OHLCVRequest) ([]Candle, error) {
	request.Normalize(uc.config.GetMarketConfig().DefaultCandleLimit)
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid ohlcv request: " + err.Error())
	}

	candles, err := uc.ohlcv(ctx, request)
	if err != nil {
		uc.logger.Error("Failed to get candles",
			ports.F("symbol", request.Symbol),
			ports.F("interval", request.Interval),
			ports.F("error", err))
		return nil, fmt.Errorf("get ohlcv for %s: %w", request.Symbol, err)
	}
	return candles, nil
}

// GetFiatRates returns exchange rates against a base currency
func (uc *UseCase) GetFiatRates(ctx context.Context, request FiatRatesRequest) (*FiatRates, error) {
	request.Normalize()
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid fiat rates request: " + err.Error())
	}

	rates, err := uc.fiatRates(ctx, request)
	if err != nil {
		uc.logger.Error("Failed to get fiat rates",
			ports.F("base", request.Base),
			ports.F("error", err))
		return nil, fmt.Errorf("get fiat rates for %s: %w", request.Base, err)
	}
	return rates, nil
}

// GetProviderNames lists the providers behind the procedures
func (uc *UseCase) GetProviderNames() []string {
	return []string{
		uc.quoteProvider.GetProviderName(),
		uc.exchangeProvider.GetProviderName(),
		uc.fiatProvider.GetProviderName(),
	}
}

func (uc *UseCase) fetchCryptoInfos(ctx context.Context, request CryptoInfosRequest) ([]CryptoInfo, error) {
	quotes, err := uc.quoteProvider.GetQuotes(ctx, request.IDs, request.Convert)
	if err != nil {
		return nil, providerError("crypto quote provider failed", err)
	}

	infos := make([]CryptoInfo, 0, len(quotes))
	for _, q := range quotes {
		infos = append(infos, CryptoInfo{
			ID:               q.ID,
			Name:             q.Name,
			Symbol:           q.Symbol,
			Slug:             q.Slug,
			Currency:         q.Currency,
			Price:            q.Price,
			PercentChange1h:  q.PercentChange1h,
			PercentChange24h: q.PercentChange24h,
			PercentChange7d:  q.PercentChange7d,
			MarketCap:        q.MarketCap,
			Volume24h:        q.Volume24h,
			LastUpdated:      q.LastUpdated,
		})
	}
	return infos, nil
}

func (uc *UseCase) fetchOrderBook(ctx context.Context, request OrderBookRequest) (*OrderBook, error) {
	data, err := uc.exchangeProvider.GetOrderBook(ctx, request.Symbol, request.Limit)
	if err != nil {
		return nil, providerError("exchange provider failed", err)
	}

	return &OrderBook{
		Symbol:       data.Symbol,
		LastUpdateID: data.LastUpdateID,
		Bids:         convertLevels(data.Bids),
		Asks:         convertLevels(data.Asks),
	}, nil
}

func (uc *UseCase) fetchOHLCV(ctx context.Context, request OHLCVRequest) ([]Candle, error) {
	data, err := uc.exchangeProvider.GetCandles(ctx, request.Symbol, request.Interval, request.Limit)
	if err != nil {
		return nil, providerError("exchange provider failed", err)
	}

	candles := make([]Candle, 0, len(data))
	for _, d := range data {
		candle := Candle{
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    d.Volume,
		}
		if err := candle.IsValid(); err != nil {
			return nil, errors.NewExternalAPIError("invalid candle from provider: "+err.Error(), nil)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func (uc *UseCase) fetchFiatRates(ctx context.Context, request FiatRatesRequest) (*FiatRates, error) {
	data, err := uc.fiatProvider.GetRates(ctx, request.Base, request.Symbols)
	if err != nil {
		return nil, providerError("fiat rate provider failed", err)
	}

	rates := make(map[string]float64, len(data.Rates))
	for symbol, rate := range data.Rates {
		rates[symbol] = rate
	}
	return &FiatRates{Base: data.Base, Date: data.Date, Rates: rates}, nil
}

// providerError keeps typed provider errors and wraps anything else as an upstream failure
func providerError(message string, err error) error {
	if errors.TypeOf(err) != errors.ErrorTypeUnknown {
		return err
	}
	return errors.NewExternalAPIError(message, err)
}

func convertLevels(levels []ports.PriceLevelData) []PriceLevel {
	out := make([]PriceLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, PriceLevel{Price: l.Price, Quantity: l.Quantity})
	}
	return out
}
