package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chatcart/backend/config"
	"github.com/chatcart/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
			RequestTimeout: 5 * time.Second,
		},
		LLM: config.LLMConfig{
			Provider: "openai",
			APIKey:   "sk-test",
			Model:    "gpt-4-turbo",
			Timeout:  time.Second,
		},
		Catalog: config.CatalogConfig{
			Account:       "tienda",
			ResultLimit:   4,
			SelectionMode: config.SelectionModeBest,
		},
		Pricing: config.PricingConfig{Locale: "es-AR", Currency: "ARS"},
		Cache:   config.CacheConfig{Type: "memory", TTL: time.Minute},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("wires the router", func(t *testing.T) {
		app, err := New(context.Background(), testConfig(), zap.NewNop())
		require.NoError(t, err)
		defer app.Close()

		require.NotNil(t, app.Chat)
		require.Len(t, app.closers, 1)
		assert.IsType(t, &cache.MemoryCache{}, app.closers[0])

		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disabled cache", func(t *testing.T) {
		cfg := testConfig()
		cfg.Cache.Type = "none"

		app, err := New(context.Background(), cfg, nil)
		require.NoError(t, err)
		defer app.Close()

		assert.IsType(t, &cache.NoopCache{}, app.closers[0])
	})

	t.Run("redis cache", func(t *testing.T) {
		server := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://" + server.Addr()

		app, err := New(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)

		assert.IsType(t, &cache.RedisCache{}, app.closers[0])
		assert.NoError(t, app.Close())
	})

	t.Run("unreachable redis", func(t *testing.T) {
		server := miniredis.RunT(t)
		addr := server.Addr()
		server.Close()

		cfg := testConfig()
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://" + addr

		_, err := New(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unknown LLM provider", func(t *testing.T) {
		cfg := testConfig()
		cfg.LLM.Provider = "cohere"

		_, err := New(context.Background(), cfg, zap.NewNop())
		assert.ErrorContains(t, err, "LLM")
	})

	t.Run("unsupported locale", func(t *testing.T) {
		cfg := testConfig()
		cfg.Pricing.Locale = "ja-JP"

		_, err := New(context.Background(), cfg, zap.NewNop())
		assert.ErrorContains(t, err, "price formatter")
	})
}

func TestNew_ChatAgainstFakeUpstreams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"assistant_reply\":\"¡Listo!\",\"search_terms\":[\"yerba\"]}"}}]}`))
	}))
	defer llmServer.Close()

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"productId":"7","productName":"Yerba Mate 1kg","linkText":"yerba-mate-1kg",
			"items":[{"itemId":"1","images":[],"sellers":[{"sellerId":"1","commertialOffer":{"Price":3500,"AvailableQuantity":5}}]}]}]`))
	}))
	defer catalogServer.Close()

	cfg := testConfig()
	cfg.LLM.BaseURL = llmServer.URL + "/v1"
	cfg.Catalog.BaseURL = catalogServer.URL
	cfg.Catalog.StorefrontURL = "https://www.tienda.com"
	cfg.Catalog.PlaceholderImage = "https://cdn.tienda.com/none.png"

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"quiero tomar mate"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Reply    string `json:"reply"`
		Products []struct {
			ID    string `json:"id"`
			Image string `json:"img"`
			Price string `json:"price"`
			Link  string `json:"link"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "¡Listo!", response.Reply)
	require.Len(t, response.Products, 1)
	assert.Equal(t, "7", response.Products[0].ID)
	assert.Equal(t, "https://cdn.tienda.com/none.png", response.Products[0].Image)
	assert.Equal(t, "$3.500,00", response.Products[0].Price)
	assert.Equal(t, "https://www.tienda.com/yerba-mate-1kg/p", response.Products[0].Link)
}
