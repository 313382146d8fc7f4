package commands

import (
	"context"
	"fmt"
	"time"

	"dashboard.app/internal/adapters/infrastructure"
	"dashboard.app/internal/core/cache"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type ttlReporter interface {
	TTL(ctx context.Context, key string) (time.Duration, error)
}

func (c *CLI) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <procedure> <json-input>",
		Short: "Print the cached response of a procedure call",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := decodeInput(args[1])
			if err != nil {
				return err
			}

			return c.withStore(func(store ports.ManagedCacheStore) error {
				responseCache, err := cache.New(cache.Dependencies{
					Store:   store,
					Config:  infrastructure.NewConfigProviderAdapter(c.config),
					Logger:  infrastructure.NewSlogLoggerAdapter(nil),
					Metrics: infrastructure.NewPrometheusCacheMetricsAdapterWithRegistry("dashctl", prometheus.NewRegistry()),
				})
				if err != nil {
					return err
				}

				key, value, err := responseCache.Peek(cmd.Context(), args[0], input)
				if errors.IsNotFoundError(err) {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n(not cached)\n", key)
					return err
				}
				if err != nil {
					return fmt.Errorf("read %s: %w", key, err)
				}

				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", key, value); err != nil {
					return err
				}

				// Memcached cannot report remaining lifetimes
				if ttlStore, ok := store.(ttlReporter); ok {
					if ttl, err := ttlStore.TTL(cmd.Context(), key); err == nil {
						_, err = fmt.Fprintf(cmd.OutOrStdout(), "ttl %s\n", ttl.Round(time.Millisecond))
						return err
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) newEvictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evict <procedure> <json-input>",
		Short: "Drop the cached response of a procedure call",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := decodeInput(args[1])
			if err != nil {
				return err
			}

			key, err := cache.NewKeyBuilder(c.config.Cache.KeyPrefix, c.config.Cache.MaxKeyLength).Build(args[0], input)
			if err != nil {
				return err
			}

			return c.withStore(func(store ports.ManagedCacheStore) error {
				if err := store.Delete(cmd.Context(), key); err != nil && !errors.IsNotFoundError(err) {
					return fmt.Errorf("evict %s: %w", key, err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "evicted %s\n", key)
				return err
			})
		},
	}
}

// withStore opens the configured store for the duration of fn
func (c *CLI) withStore(fn func(store ports.ManagedCacheStore) error) error {
	store, err := c.openStore(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	return fn(store)
}
