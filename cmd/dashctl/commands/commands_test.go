package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dashboard.app/cmd/dashctl/commands"
	"dashboard.app/internal/adapters/external"
	"dashboard.app/internal/config"
	"dashboard.app/internal/ports"
	"dashboard.app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cryptoInfosKey = `dashboard:getCryptoInfos:{"convert":"USD","ids":[1,2]}`

// keepOpenStore survives the Close issued after every command
type keepOpenStore struct {
	*external.MemoryCacheStoreAdapter
	closed int
}

func (s *keepOpenStore) Close() error {
	s.closed++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:      true,
			Type:         config.CacheTypeMemory,
			KeyPrefix:    "dashboard:",
			MaxKeyLength: 200,
		},
	}
}

func execute(t *testing.T, cli *commands.CLI, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	cli.SetArgs(args)
	cli.SetOutput(out, new(bytes.Buffer))
	err := cli.Execute(context.Background())
	return out.String(), err
}

func noStore(t *testing.T) commands.StoreOpener {
	return func(*config.CacheConfig) (ports.ManagedCacheStore, error) {
		t.Fatal("store should not be opened")
		return nil, nil
	}
}

func TestCommands_Key(t *testing.T) {
	t.Run("equivalent inputs print the same key", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		first, err := execute(t, cli, "key", "getCryptoInfos", `{"ids":[2,"1",1],"convert":"USD"}`)
		require.NoError(t, err)
		second, err := execute(t, cli, "key", "getCryptoInfos", `{"convert":"USD","ids":[1,2]}`)
		require.NoError(t, err)

		assert.Equal(t, cryptoInfosKey+"\n", first)
		assert.Equal(t, first, second)
	})

	t.Run("prefix flag overrides configuration", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		out, err := execute(t, cli, "key", "getFiatRates", `{"base":"USD"}`, "--prefix", "staging:")
		require.NoError(t, err)
		assert.Equal(t, `staging:getFiatRates:{"base":"USD"}`+"\n", out)
	})

	t.Run("long inputs are digested", func(t *testing.T) {
		cfg := testConfig()
		cfg.Cache.MaxKeyLength = 64
		cli := commands.New(cfg, noStore(t))

		out, err := execute(t, cli, "key", "getCryptoInfos", `{"ids":[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20]}`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "dashboard:getCryptoInfos:#"))
		assert.LessOrEqual(t, len(strings.TrimSpace(out)), 64)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		_, err := execute(t, cli, "key", "getCryptoInfos", `{"ids":`)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))

		_, err = execute(t, cli, "key", "getCryptoInfos", `{} {}`)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("requires both arguments", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		_, err := execute(t, cli, "key", "getCryptoInfos")
		assert.Error(t, err)
	})
}

func TestCommands_Tiers(t *testing.T) {
	t.Run("prints defaults ordered by TTL", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		out, err := execute(t, cli, "tiers")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 9)
		assert.Equal(t, []string{"seconds-short", "10s"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"hours-long", "24h0m0s"}, strings.Fields(lines[8]))
	})

	t.Run("applies the override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiers.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tiers:\n  seconds-short: 50h\n"), 0o600))

		cli := commands.New(testConfig(), noStore(t))

		out, err := execute(t, cli, "tiers", "--file", path)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 9)
		assert.Equal(t, []string{"seconds-medium", "30s"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"seconds-short", "50h0m0s"}, strings.Fields(lines[8]))
	})

	t.Run("prints a single tier", func(t *testing.T) {
		cli := commands.New(testConfig(), noStore(t))

		out, err := execute(t, cli, "tiers", "--tier", "minutes-short")
		require.NoError(t, err)
		assert.Equal(t, []string{"minutes-short", "2m0s"}, strings.Fields(out))

		_, err = execute(t, cli, "tiers", "-t", "weeks-long")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("reports an unknown tier", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiers.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tiers:\n  weeks-long: 168h\n"), 0o600))

		cli := commands.New(testConfig(), noStore(t))

		_, err := execute(t, cli, "tiers", "-f", path)
		assert.True(t, errors.IsConfigurationError(err))
	})
}

func TestCommands_GetAndEvict(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &keepOpenStore{MemoryCacheStoreAdapter: external.NewMemoryCacheStoreAdapter(
		external.WithClock(func() time.Time { return now }),
	)}
	require.NoError(t, store.Set(context.Background(), cryptoInfosKey, []byte(`[{"id":1}]`), time.Minute))

	opened := 0
	cli := commands.New(testConfig(), func(cfg *config.CacheConfig) (ports.ManagedCacheStore, error) {
		assert.Equal(t, config.CacheTypeMemory, cfg.Type)
		opened++
		return store, nil
	})

	out, err := execute(t, cli, "get", "getCryptoInfos", `{"ids":["2",1],"convert":"USD"}`)
	require.NoError(t, err)
	assert.Equal(t, cryptoInfosKey+"\n"+`[{"id":1}]`+"\nttl 1m0s\n", out)

	out, err = execute(t, cli, "evict", "getCryptoInfos", `{"ids":[1,2],"convert":"USD"}`)
	require.NoError(t, err)
	assert.Equal(t, "evicted "+cryptoInfosKey+"\n", out)

	out, err = execute(t, cli, "get", "getCryptoInfos", `{"ids":[1,2],"convert":"USD"}`)
	require.NoError(t, err)
	assert.Equal(t, cryptoInfosKey+"\n(not cached)\n", out)

	assert.Equal(t, 3, opened)
	assert.Equal(t, 3, store.closed)
}

func TestCommands_StoreUnavailable(t *testing.T) {
	cli := commands.New(testConfig(), func(*config.CacheConfig) (ports.ManagedCacheStore, error) {
		return nil, errors.NewCacheError("redis connection failed", nil)
	})

	_, err := execute(t, cli, "get", "getFiatRates", `{"base":"USD"}`)
	require.Error(t, err)
	assert.True(t, errors.IsCacheError(err))
	assert.Contains(t, err.Error(), "open cache store")
}
