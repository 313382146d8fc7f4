package external

import (
	"context"
	"time"

	"dashboard.app/internal/ports"
)

// providerCallLogger emits the request/response/error triple shared by all provider decorators
type providerCallLogger struct {
	provider string
	logger   ports.Logger
}

func (l providerCallLogger) start(operation string, fields ...ports.Field) time.Time {
	l.logger.Info("Market API request started", l.fields(operation, "request", fields)...)
	return time.Now()
}

func (l providerCallLogger) finish(operation string, startTime time.Time, err error, fields ...ports.Field) {
	duration := time.Since(startTime)
	fields = append(fields, ports.F("duration_ms", duration.Milliseconds()))

	if err != nil {
		fields = append(fields, ports.F("error", err.Error()))
		l.logger.Error("Market API request failed", l.fields(operation, "error", fields)...)
		return
	}
	l.logger.Info("Market API request completed", l.fields(operation, "response", fields)...)
}

func (l providerCallLogger) fields(operation, event string, extra []ports.Field) []ports.Field {
	fields := make([]ports.Field, 0, len(extra)+3)
	fields = append(fields,
		ports.F("provider", l.provider),
		ports.F("operation", operation),
		ports.F("event", event))
	return append(fields, extra...)
}

// CryptoQuoteProviderLoggingDecorator decorates quote providers with structured logging
type CryptoQuoteProviderLoggingDecorator struct {
	provider ports.CryptoQuoteProvider
	log      providerCallLogger
}

// NewCryptoQuoteProviderLoggingDecorator creates a new logging decorator for quote providers
func NewCryptoQuoteProviderLoggingDecorator(provider ports.CryptoQuoteProvider, logger ports.Logger) ports.CryptoQuoteProvider {
	return &CryptoQuoteProviderLoggingDecorator{
		provider: provider,
		log:      providerCallLogger{provider: provider.GetProviderName(), logger: logger},
	}
}

// GetQuotes wraps the provider call with structured logging
func (d *CryptoQuoteProviderLoggingDecorator) GetQuotes(ctx context.Context, ids []int, convert string) ([]ports.CryptoQuoteData, error) {
	startTime := d.log.start("quotes", ports.F("ids", ids), ports.F("convert", convert))

	quotes, err := d.provider.GetQuotes(ctx, ids, convert)
	if err != nil {
		d.log.finish("quotes", startTime, err, ports.F("ids", ids))
		return nil, err
	}

	d.log.finish("quotes", startTime, nil, ports.F("ids", ids), ports.F("quotes", len(quotes)))
	return quotes, nil
}

// GetProviderName returns the name of the wrapped provider with logging indication
func (d *CryptoQuoteProviderLoggingDecorator) GetProviderName() string {
	return "logged(" + d.provider.GetProviderName() + ")"
}

// ExchangeDataProviderLoggingDecorator decorates exchange providers with structured logging
type ExchangeDataProviderLoggingDecorator struct {
	provider ports.ExchangeDataProvider
	log      providerCallLogger
}

// NewExchangeDataProviderLoggingDecorator creates a new logging decorator for exchange providers
func NewExchangeDataProviderLoggingDecorator(provider ports.ExchangeDataProvider, logger ports.Logger) ports.ExchangeDataProvider {
	return &ExchangeDataProviderLoggingDecorator{
		provider: provider,
		log:      providerCallLogger{provider: provider.GetProviderName(), logger: logger},
	}
}

// GetOrderBook wraps the provider call with structured logging
func (d *ExchangeDataProviderLoggingDecorator) GetOrderBook(ctx context.Context, symbol string, limit int) (*ports.OrderBookData, error) {
	startTime := d.log.start("order_book", ports.F("symbol", symbol), ports.F("limit", limit))

	book, err := d.provider.GetOrderBook(ctx, symbol, limit)
	if err != nil {
		d.log.finish("order_book", startTime, err, ports.F("symbol", symbol))
		return nil, err
	}

	d.log.finish("order_book", startTime, nil,
		ports.F("symbol", symbol),
		ports.F("bids", len(book.Bids)),
		ports.F("asks", len(book.Asks)))
	return book, nil
}

// GetCandles wraps the provider call with structured logging
func (d *ExchangeDataProviderLoggingDecorator) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]ports.CandleData, error) {
	startTime := d.log.start("candles",
		ports.F("symbol", symbol),
		ports.F("interval", interval),
		ports.F("limit", limit))

	candles, err := d.provider.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		d.log.finish("candles", startTime, err, ports.F("symbol", symbol), ports.F("interval", interval))
		return nil, err
	}

	d.log.finish("candles", startTime, nil,
		ports.F("symbol", symbol),
		ports.F("interval", interval),
		ports.F("candles", len(candles)))
	return candles, nil
}

// GetProviderName returns the name of the wrapped provider with logging indication
func (d *ExchangeDataProviderLoggingDecorator) GetProviderName() string {
	return "logged(" + d.provider.GetProviderName() + ")"
}

// FiatRateProviderLoggingDecorator decorates fiat rate providers with structured logging
type FiatRateProviderLoggingDecorator struct {
	provider ports.FiatRateProvider
	log      providerCallLogger
}

// NewFiatRateProviderLoggingDecorator creates a new logging decorator for fiat rate providers
func NewFiatRateProviderLoggingDecorator(provider ports.FiatRateProvider, logger ports.Logger) ports.FiatRateProvider {
	return &FiatRateProviderLoggingDecorator{
		provider: provider,
		log:      providerCallLogger{provider: provider.GetProviderName(), logger: logger},
	}
}

// GetRates wraps the provider call with structured logging
func (d *FiatRateProviderLoggingDecorator) GetRates(ctx context.Context, base string, symbols []string) (*ports.FiatRatesData, error) {
	startTime := d.log.start("rates", ports.F("base", base), ports.F("symbols", symbols))

	rates, err := d.provider.GetRates(ctx, base, symbols)
	if err != nil {
		d.log.finish("rates", startTime, err, ports.F("base", base))
		return nil, err
	}

	d.log.finish("rates", startTime, nil,
		ports.F("base", base),
		ports.F("date", rates.Date),
		ports.F("rates", len(rates.Rates)))
	return rates, nil
}

// GetProviderName returns the name of the wrapped provider with logging indication
func (d *FiatRateProviderLoggingDecorator) GetProviderName() string {
	return "logged(" + d.provider.GetProviderName() + ")"
}
