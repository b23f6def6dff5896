// Package app builds the object graph of the service from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chatcart/backend/config"
	httpDelivery "github.com/chatcart/backend/internal/delivery/http"
	"github.com/chatcart/backend/internal/domain"
	"github.com/chatcart/backend/internal/infrastructure/cache"
	"github.com/chatcart/backend/internal/infrastructure/llm"
	"github.com/chatcart/backend/internal/infrastructure/vtex"
	"github.com/chatcart/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is the wired service
type App struct {
	Chat   *usecase.ChatService
	Router *gin.Engine

	closers []io.Closer
}

// New wires every component described by cfg
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalogCache, closer, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	app := &App{closers: []io.Closer{closer}}

	completer, err := llm.New(llm.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	formatter, err := usecase.NewPriceFormatter(usecase.PricingConfig{
		Locale:           cfg.Pricing.Locale,
		Currency:         cfg.Pricing.Currency,
		Symbol:           cfg.Pricing.Symbol,
		UnavailableLabel: cfg.Pricing.UnavailableLabel,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create price formatter: %w", err)
	}

	catalog := vtex.NewClient(vtex.ClientConfig{
		Account:           cfg.Catalog.Account,
		Environment:       cfg.Catalog.Environment,
		BaseURL:           cfg.Catalog.BaseURL,
		AppKey:            cfg.Catalog.AppKey,
		AppToken:          cfg.Catalog.AppToken,
		Timeout:           cfg.Catalog.Timeout,
		MaxAttempts:       cfg.Catalog.MaxAttempts,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
	}, logger)

	app.Chat = usecase.NewChatService(completer, catalog, catalogCache, usecase.ChatServiceConfig{
		Account:            cfg.Catalog.Account,
		ResultLimit:        cfg.Catalog.ResultLimit,
		Mode:               usecase.SelectionMode(cfg.Catalog.SelectionMode),
		PreferredBrand:     cfg.Catalog.PreferredBrand,
		SystemPrompt:       cfg.LLM.SystemPrompt,
		DefaultReplyPrefix: cfg.Chat.DefaultReplyPrefix,
		CacheTTL:           cfg.Cache.TTL,
		MaxConcurrency:     cfg.Catalog.MaxConcurrency,
		Normalizer: usecase.NewProductNormalizer(usecase.NormalizerConfig{
			PlaceholderImage: cfg.Catalog.PlaceholderImage,
			StorefrontURL:    cfg.Catalog.StorefrontURL,
			Formatter:        formatter,
		}),
	}, logger)

	handler := httpDelivery.NewHandler(app.Chat, logger, cfg.Server.RequestTimeout)
	app.Router = httpDelivery.SetupRouter(cfg, handler, logger)

	logger.Info("application wired",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("catalog_account", cfg.Catalog.Account),
		zap.String("selection_mode", cfg.Catalog.SelectionMode),
		zap.String("cache", cfg.Cache.Type),
		zap.String("locale", cfg.Pricing.Locale),
		zap.String("currency", formatter.Currency()))

	return app, nil
}

// Close releases the cache connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type closableCache interface {
	domain.CacheRepository
	io.Closer
}

func newCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (domain.CacheRepository, io.Closer, error) {
	var c closableCache

	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		c = redisCache
	case "none":
		c = cache.NewNoopCache()
	default:
		c = cache.NewMemoryCache()
	}

	logger.Debug("catalog cache ready", zap.String("type", cfg.Type), zap.Duration("ttl", cfg.TTL))
	return c, c, nil
}
