package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"dashboard.app/internal/adapters/api"
	"dashboard.app/internal/config"
	"dashboard.app/internal/core/market"
	"dashboard.app/pkg/errors"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream fakes CoinMarketCap, Binance and Frankfurter on one server
type upstream struct {
	server *httptest.Server
	calls  map[string]*int64
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{calls: map[string]*int64{
		"quotes": new(int64),
		"depth":  new(int64),
		"klines": new(int64),
		"rates":  new(int64),
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/cryptocurrency/quotes/latest", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(u.calls["quotes"], 1)
		_, _ = w.Write([]byte(`{"status":{"error_code":0},"data":{"1":{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin","quote":{"USD":{"price":62000.5,"last_updated":"2024-03-01T12:00:00.000Z"}}}}}`))
	})
	mux.HandleFunc("/api/v3/depth", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(u.calls["depth"], 1)
		_, _ = w.Write([]byte(`{"lastUpdateId":7,"bids":[["100.0","1.0"]],"asks":[["101.0","2.0"]]}`))
	})
	mux.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(u.calls["klines"], 1)
		_, _ = w.Write([]byte(`[[1709294400000,"1.0","2.0","0.5","1.5","10.0",1709297999999,"0","0","0","0","0"]]`))
	})
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(u.calls["rates"], 1)
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2024-03-01","rates":{"EUR":0.92}}`))
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) count(name string) int64 {
	return atomic.LoadInt64(u.calls[name])
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Cache: config.CacheConfig{
			Enabled:      true,
			Type:         config.CacheTypeMemory,
			KeyPrefix:    "dashboard:",
			MaxKeyLength: 200,
		},
		Market: config.MarketConfig{
			CoinMarketCapAPIKey:   "test-key",
			CoinMarketCapBaseURL:  baseURL,
			BinanceBaseURL:        baseURL,
			FrankfurterBaseURL:    baseURL,
			QuoteCurrency:         "USD",
			DefaultOrderBookLimit: 100,
			DefaultCandleLimit:    500,
			HTTPTimeout:           5 * time.Second,
			EnableLogging:         true,
			LogFilePath:           filepath.Join(t.TempDir(), "market_providers.log"),
		},
		Log: config.LogConfig{Level: "info", Format: "json"},
	}
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps, err := NewDependencyContainer(cfg, DependencyOptions{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Cleanup() })

	application, err := NewApplicationWithDependencies(cfg, deps)
	require.NoError(t, err)
	return application
}

func get(t *testing.T, application *Application, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	application.GetRouter().ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestApplication_ProceduresAreCached(t *testing.T) {
	up := newUpstream(t)
	application := newTestApplication(t, testConfig(t, up.server.URL))

	targets := map[string][]string{
		"quotes": {"/api/crypto/infos?ids=1,1", "/api/crypto/infos?ids=1"},
		"depth":  {"/api/crypto/orderbook?symbol=btcusdt", "/api/crypto/orderbook?symbol=BTCUSDT&limit=100"},
		"klines": {"/api/crypto/ohlcv?symbol=ETHUSDT&interval=1h&limit=1", "/api/crypto/ohlcv?symbol=ethusdt&interval=1h&limit=1"},
		"rates":  {"/api/fiat/rates?base=usd&symbols=EUR", "/api/fiat/rates?base=USD&symbols=eur,EUR"},
	}

	for name, requests := range targets {
		for _, target := range requests {
			w := get(t, application, target)
			require.Equal(t, http.StatusOK, w.Code, "%s: %s", target, w.Body.String())
		}
		assert.Equal(t, int64(1), up.count(name), name)
	}

	w := get(t, application, "/api/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	cache := metrics["cache"].(map[string]interface{})
	assert.Equal(t, float64(4), cache["hits"])
	assert.Equal(t, float64(4), cache["misses"])
	assert.ElementsMatch(t, []interface{}{"logged(binance)", "logged(coinmarketcap)", "logged(frankfurter)"}, metrics["providers"])
}

func TestApplication_CacheDisabled(t *testing.T) {
	up := newUpstream(t)
	cfg := testConfig(t, up.server.URL)
	cfg.Cache.Enabled = false
	cfg.Market.EnableLogging = false
	application := newTestApplication(t, cfg)

	for i := 0; i < 3; i++ {
		w := get(t, application, "/api/fiat/rates?base=USD")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, int64(3), up.count("rates"))

	w := get(t, application, "/health")
	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "disabled", health.Components["cache"].Status)
	assert.Equal(t, "healthy", health.Status)
}

func TestApplication_RedisOutageFailsOpen(t *testing.T) {
	up := newUpstream(t)
	mockRedis := miniredis.RunT(t)

	cfg := testConfig(t, up.server.URL)
	cfg.Cache.Type = config.CacheTypeRedis
	cfg.Cache.Redis = config.RedisConfig{Addr: mockRedis.Addr(), DialTimeout: 1, ReadTimeout: 1, WriteTimeout: 1}
	application := newTestApplication(t, cfg)

	w := get(t, application, "/api/crypto/orderbook?symbol=BTCUSDT")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, mockRedis.Keys(), 1)

	w = get(t, application, "/health")
	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)

	mockRedis.Close()

	for i := 0; i < 2; i++ {
		w = get(t, application, "/api/crypto/orderbook?symbol=BTCUSDT")
		require.Equal(t, http.StatusOK, w.Code)

		var book market.OrderBook
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, int64(7), book.LastUpdateID)
	}
	assert.Equal(t, int64(3), up.count("depth"))

	w = get(t, application, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestNewDependencyContainer_Errors(t *testing.T) {
	t.Run("UnreachableRedis", func(t *testing.T) {
		cfg := testConfig(t, "http://127.0.0.1:1")
		cfg.Cache.Type = config.CacheTypeRedis
		cfg.Cache.Redis = config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 1, ReadTimeout: 1, WriteTimeout: 1}

		deps, err := NewDependencyContainer(cfg, DependencyOptions{Registerer: prometheus.NewRegistry()})
		assert.Nil(t, deps)
		assert.True(t, errors.IsCacheError(err))
	})

	t.Run("MissingTierFile", func(t *testing.T) {
		cfg := testConfig(t, "http://127.0.0.1:1")
		cfg.Cache.TiersFile = filepath.Join(t.TempDir(), "missing.yaml")

		deps, err := NewDependencyContainer(cfg, DependencyOptions{Registerer: prometheus.NewRegistry()})
		assert.Nil(t, deps)
		assert.True(t, errors.IsConfigurationError(err))
	})
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	t.Setenv("CACHE_TYPE", "etcd")

	application, err := NewApplication()
	assert.Error(t, err)
	assert.Nil(t, application)
}
