// Package cache implements the tiered TTL response cache that wraps every
// outbound-fetching procedure.
//
// A wrapped procedure derives a key from its identifier and canonical input,
// returns a fresh stored result when one exists, and otherwise runs the
// handler and stores its successful result for the TTL of the chosen tier.
// The store is an optimization only: read failures degrade to a miss and
// write failures are logged and swallowed. Handler failures are never cached.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Handler is a procedure fetching data for an input
type Handler[I, O any] func(ctx context.Context, input I) (O, error)

// Cache holds the store, tier table and key rules shared by all wrapped procedures
type Cache struct {
	store        ports.CacheStore
	tiers        TierTable
	keys         *KeyBuilder
	logger       ports.Logger
	metrics      ports.CacheMetrics
	enabled      bool
	singleFlight bool
	group        singleflight.Group
}

// Dependencies holds everything needed to build a Cache
type Dependencies struct {
	Store   ports.CacheStore
	Tiers   TierTable
	Config  ports.ConfigProvider
	Logger  ports.Logger
	Metrics ports.CacheMetrics
}

// New creates a response cache
func New(deps Dependencies) (*Cache, error) {
	if deps.Config == nil {
		return nil, errors.NewValidationError("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}

	cfg := deps.Config.GetCacheConfig()
	if cfg.Enabled && deps.Store == nil {
		return nil, errors.NewValidationError("cache store is required when caching is enabled")
	}

	tiers := deps.Tiers
	if tiers == nil {
		tiers = DefaultTierTable()
	}
	if err := tiers.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		store:        deps.Store,
		tiers:        tiers,
		keys:         NewKeyBuilder(cfg.KeyPrefix, cfg.MaxKeyLength),
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		enabled:      cfg.Enabled,
		singleFlight: cfg.SingleFlight,
	}, nil
}

// Enabled reports whether wrapped procedures consult the store
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Tiers returns the tier table the cache was built with
func (c *Cache) Tiers() TierTable {
	return c.tiers
}

// TierTTLs returns every tier with its TTL rendered as a duration string
func (c *Cache) TierTTLs() map[string]string {
	out := make(map[string]string, len(c.tiers))
	for tier, ttl := range c.tiers {
		out[tier.String()] = ttl.String()
	}
	return out
}

// Key returns the store key procedure would use for input
func (c *Cache) Key(procedure string, input any) (string, error) {
	return c.keys.Build(procedure, input)
}

// Peek returns the raw stored entry for procedure and input without running anything
func (c *Cache) Peek(ctx context.Context, procedure string, input any) (string, []byte, error) {
	key, err := c.keys.Build(procedure, input)
	if err != nil {
		return "", nil, err
	}
	if c.store == nil {
		return key, nil, errors.NewNotFoundError("cache store is not configured")
	}

	value, err := c.store.Get(ctx, key)
	if err != nil {
		return key, nil, err
	}
	return key, value, nil
}

// Wrap decorates handler with the response cache under the procedure identifier.
// The returned handler has the same contract as handler; callers can only tell a
// hit from a miss by latency.
func Wrap[I, O any](c *Cache, procedure string, tier Tier, handler Handler[I, O]) (Handler[I, O], error) {
	if c == nil {
		return nil, errors.NewValidationError("cache is required")
	}
	if handler == nil {
		return nil, errors.NewValidationError("handler is required")
	}
	if strings.TrimSpace(procedure) == "" {
		return nil, errors.NewValidationError("procedure identifier is required")
	}

	ttl, err := c.tiers.TTL(tier)
	if err != nil {
		return nil, fmt.Errorf("wrap %s: %w", procedure, err)
	}

	if !c.enabled {
		return handler, nil
	}

	return func(ctx context.Context, input I) (O, error) {
		var zero O

		key, err := c.keys.Build(procedure, input)
		if err != nil {
			c.logger.Error("Cache key derivation failed",
				ports.F("procedure", procedure),
				ports.F("error", err))
			return zero, err
		}

		if out, ok := lookup[O](ctx, c, procedure, key); ok {
			return out, nil
		}

		run := func(ctx context.Context) (O, error) {
			return handler(ctx, input)
		}

		if !c.singleFlight {
			return load(ctx, c, procedure, tier, key, ttl, run)
		}

		// The shared call outlives any single caller; each caller only
		// abandons its own wait.
		flight := c.group.DoChan(key, func() (any, error) {
			return load(context.WithoutCancel(ctx), c, procedure, tier, key, ttl, run)
		})

		select {
		case res := <-flight:
			if res.Err != nil {
				return zero, res.Err
			}
			if res.Shared {
				c.logger.Debug("Cache miss coalesced with in-flight call",
					ports.F("procedure", procedure),
					ports.F("key", key))
			}
			out, _ := res.Val.(O)
			return out, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}, nil
}

func lookup[O any](ctx context.Context, c *Cache, procedure, key string) (O, bool) {
	var zero O

	start := time.Now()
	raw, err := c.store.Get(ctx, key)
	c.metrics.RecordLatency(procedure, "get", time.Since(start))

	if err != nil {
		if !errors.IsNotFoundError(err) {
			c.metrics.RecordStoreError(procedure, "get")
			c.logger.Warn("Cache store read failed, calling handler",
				ports.F("procedure", procedure),
				ports.F("key", key),
				ports.F("error", err))
		}
		c.metrics.RecordMiss(procedure)
		return zero, false
	}

	var out O
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("Discarding undecodable cache entry",
			ports.F("procedure", procedure),
			ports.F("key", key),
			ports.F("error", err))
		c.metrics.RecordMiss(procedure)
		return zero, false
	}

	c.metrics.RecordHit(procedure)
	c.logger.Debug("Cache hit",
		ports.F("procedure", procedure),
		ports.F("key", key))
	return out, true
}

func load[O any](ctx context.Context, c *Cache, procedure string, tier Tier, key string, ttl time.Duration, run func(context.Context) (O, error)) (O, error) {
	start := time.Now()
	out, err := run(ctx)
	c.metrics.RecordLatency(procedure, "handler", time.Since(start))
	if err != nil {
		var zero O
		return zero, err
	}

	c.persist(ctx, procedure, tier, key, ttl, out)
	return out, nil
}

func (c *Cache) persist(ctx context.Context, procedure string, tier Tier, key string, ttl time.Duration, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to serialize result for cache",
			ports.F("procedure", procedure),
			ports.F("key", key),
			ports.F("error", err))
		return
	}

	start := time.Now()
	err = c.store.Set(ctx, key, data, ttl)
	c.metrics.RecordLatency(procedure, "set", time.Since(start))
	if err != nil {
		c.metrics.RecordStoreError(procedure, "set")
		c.logger.Warn("Failed to cache result",
			ports.F("procedure", procedure),
			ports.F("key", key),
			ports.F("error", err))
		return
	}

	c.logger.Debug("Cached result",
		ports.F("procedure", procedure),
		ports.F("key", key),
		ports.F("tier", tier.String()),
		ports.F("ttl", ttl.String()))
}
