package mocks

import (
	"dashboard.app/internal/ports"
	"github.com/stretchr/testify/mock"
)

// ConfigProvider is a mock of ports.ConfigProvider
type ConfigProvider struct {
	mock.Mock
}

func (m *ConfigProvider) GetServerConfig() ports.ServerConfig {
	args := m.Called()
	return args.Get(0).(ports.ServerConfig)
}

func (m *ConfigProvider) GetCacheConfig() ports.CacheConfig {
	args := m.Called()
	return args.Get(0).(ports.CacheConfig)
}

func (m *ConfigProvider) GetMarketConfig() ports.MarketConfig {
	args := m.Called()
	return args.Get(0).(ports.MarketConfig)
}

// NewConfigProvider creates a ConfigProvider mock and asserts its expectations on cleanup
func NewConfigProvider(t mock.TestingT) *ConfigProvider {
	m := &ConfigProvider{}
	register(t, &m.Mock)
	return m
}
