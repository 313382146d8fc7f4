package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// CacheStore is a mock of ports.ManagedCacheStore
type CacheStore struct {
	mock.Mock
}

func (m *CacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (m *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *CacheStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *CacheStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *CacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewCacheStore creates a CacheStore mock and asserts its expectations on cleanup
func NewCacheStore(t mock.TestingT) *CacheStore {
	m := &CacheStore{}
	register(t, &m.Mock)
	return m
}
