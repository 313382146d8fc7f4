package mocks

import (
	"context"

	"dashboard.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

// CryptoQuoteProvider is a mock of ports.CryptoQuoteProvider
type CryptoQuoteProvider struct {
	mock.Mock
}

func (m *CryptoQuoteProvider) GetQuotes(ctx context.Context, ids []int, convert string) ([]ports.CryptoQuoteData, error) {
	args := m.Called(ctx, ids, convert)
	quotes, _ := args.Get(0).([]ports.CryptoQuoteData)
	return quotes, args.Error(1)
}

func (m *CryptoQuoteProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

// NewCryptoQuoteProvider creates a CryptoQuoteProvider mock and asserts its expectations on cleanup
func NewCryptoQuoteProvider(t mock.TestingT) *CryptoQuoteProvider {
	m := &CryptoQuoteProvider{}
	register(t, &m.Mock)
	return m
}

// ExchangeDataProvider is a mock of ports.ExchangeDataProvider
type ExchangeDataProvider struct {
	mock.Mock
}

func (m *ExchangeDataProvider) GetOrderBook(ctx context.Context, symbol string, limit int) (*ports.OrderBookData, error) {
	args := m.Called(ctx, symbol, limit)
	book, _ := args.Get(0).(*ports.OrderBookData)
	return book, args.Error(1)
}

func (m *ExchangeDataProvider) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]ports.CandleData, error) {
	args := m.Called(ctx, symbol, interval, limit)
	candles, _ := args.Get(0).([]ports.CandleData)
	return candles, args.Error(1)
}

func (m *ExchangeDataProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

// NewExchangeDataProvider creates an ExchangeDataProvider mock and asserts its expectations on cleanup
func NewExchangeDataProvider(t mock.TestingT) *ExchangeDataProvider {
	m := &ExchangeDataProvider{}
	register(t, &m.Mock)
	return m
}

// FiatRateProvider is a mock of ports.FiatRateProvider
type FiatRateProvider struct {
	mock.Mock
}

func (m *FiatRateProvider) GetRates(ctx context.Context, base string, symbols []string) (*ports.FiatRatesData, error) {
	args := m.Called(ctx, base, symbols)
	rates, _ := args.Get(0).(*ports.FiatRatesData)
	return rates, args.Error(1)
}

func (m *FiatRateProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

// NewFiatRateProvider creates a FiatRateProvider mock and asserts its expectations on cleanup
func NewFiatRateProvider(t mock.TestingT) *FiatRateProvider {
	m := &FiatRateProvider{}
	register(t, &m.Mock)
	return m
}

func register(t mock.TestingT, m *mock.Mock) {
	m.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
}
