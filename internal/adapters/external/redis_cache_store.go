package external

import (
	"context"
	"time"

	"dashboard.app/internal/config"
	"dashboard.app/pkg/errors"
	"github.com/go-redis/redis/v8"
)

// RedisCacheStoreAdapter implements CacheStore port using Redis
type RedisCacheStoreAdapter struct {
	client *redis.Client
}

// NewRedisCacheStoreAdapter creates a Redis cache store and verifies the connection
func NewRedisCacheStoreAdapter(config *config.RedisConfig) (*RedisCacheStoreAdapter, error) {
	if config == nil {
		return nil, errors.NewConfigurationError("redis config cannot be nil", nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  time.Duration(config.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", err)
	}

	return &RedisCacheStoreAdapter{
		client: client,
	}, nil
}

// Get retrieves a value from Redis
func (r *RedisCacheStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NewNotFoundError("cache miss")
		}
		return nil, errors.NewCacheError("redis get operation failed", err)
	}

	return val, nil
}

// Set stores a value in Redis with TTL
func (r *RedisCacheStoreAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.NewCacheError("redis set operation failed", err)
	}

	return nil
}

// Delete removes a value from Redis
func (r *RedisCacheStoreAdapter) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.NewCacheError("redis delete operation failed", err)
	}

	return nil
}

// TTL returns the remaining lifetime of a key
func (r *RedisCacheStoreAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	if key == "" {
		return 0, errors.NewValidationError("cache key cannot be empty")
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, errors.NewCacheError("redis ttl operation failed", err)
	}
	if ttl < 0 {
		return 0, errors.NewNotFoundError("cache miss")
	}
	return ttl, nil
}

// Close closes the Redis client connection
func (r *RedisCacheStoreAdapter) Close() error {
	if err := r.client.Close(); err != nil {
		return errors.NewCacheError("failed to close Redis connection", err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (r *RedisCacheStoreAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewCacheError("Redis ping failed", err)
	}
	return nil
}
