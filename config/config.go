package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Selection modes for multiple catalog records per term
const (
	SelectionModeBest    = "best"
	SelectionModeFlatten = "flatten"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LLMConfig holds the completion provider configuration
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // "openai" or "anthropic"
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Temperature  float32       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

// CatalogConfig holds VTEX catalog search configuration
type CatalogConfig struct {
	Account           string        `mapstructure:"account"`
	Environment       string        `mapstructure:"environment"`
	BaseURL           string        `mapstructure:"base_url"`
	AppKey            string        `mapstructure:"app_key"`
	AppToken          string        `mapstructure:"app_token"`
	ResultLimit       int           `mapstructure:"result_limit"`
	SelectionMode     string        `mapstructure:"selection_mode"` // "best" or "flatten"
	PreferredBrand    string        `mapstructure:"preferred_brand"`
	StorefrontURL     string        `mapstructure:"storefront_url"`
	PlaceholderImage  string        `mapstructure:"placeholder_image"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
}

// PricingConfig holds price formatting configuration
type PricingConfig struct {
	Locale           string `mapstructure:"locale"`
	Currency         string `mapstructure:"currency"`
	Symbol           string `mapstructure:"symbol"`
	UnavailableLabel string `mapstructure:"unavailable_label"`
}

// ChatConfig holds reply configuration
type ChatConfig struct {
	DefaultReplyPrefix string `mapstructure:"default_reply_prefix"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory", "redis" or "none"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chatcart/")

	v.SetEnvPrefix("CHATCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from a .env file in the working directory.
// A missing file is not an error; variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.request_timeout", "45s")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4-turbo")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.system_prompt", "")

	v.SetDefault("catalog.account", "")
	v.SetDefault("catalog.environment", "vtexcommercestable.com.br")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.app_key", "")
	v.SetDefault("catalog.app_token", "")
	v.SetDefault("catalog.result_limit", 4)
	v.SetDefault("catalog.selection_mode", SelectionModeBest)
	v.SetDefault("catalog.preferred_brand", "")
	v.SetDefault("catalog.storefront_url", "")
	v.SetDefault("catalog.placeholder_image", "https://placehold.co/300x300?text=Sin+imagen")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.max_attempts", 1)
	v.SetDefault("catalog.requests_per_second", 50)
	v.SetDefault("catalog.burst", 20)
	v.SetDefault("catalog.max_concurrency", 0)

	v.SetDefault("pricing.locale", "es-AR")
	v.SetDefault("pricing.currency", "ARS")
	v.SetDefault("pricing.symbol", "")
	v.SetDefault("pricing.unavailable_label", "Price unavailable")

	v.SetDefault("chat.default_reply_prefix", "Busqué productos para: ")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "15m")

	v.SetDefault("log.level", "info")
}

// bindLegacyEnv accepts the plain variable names used by earlier deployments
func bindLegacyEnv(v *viper.Viper) error {
	if err := v.BindEnv("llm.api_key", "CHATCART_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("catalog.account", "CHATCART_CATALOG_ACCOUNT", "VTEX_ACCOUNT")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set CHATCART_LLM_API_KEY or OPENAI_API_KEY)")
	}

	if config.LLM.Provider != "openai" && config.LLM.Provider != "anthropic" {
		return fmt.Errorf("llm provider must be 'openai' or 'anthropic', got: %s", config.LLM.Provider)
	}

	if config.Catalog.Account == "" {
		return fmt.Errorf("catalog account is required (set CHATCART_CATALOG_ACCOUNT or VTEX_ACCOUNT)")
	}

	if config.Catalog.SelectionMode != SelectionModeBest && config.Catalog.SelectionMode != SelectionModeFlatten {
		return fmt.Errorf("catalog selection mode must be '%s' or '%s', got: %s",
			SelectionModeBest, SelectionModeFlatten, config.Catalog.SelectionMode)
	}

	if config.Catalog.ResultLimit <= 0 {
		return fmt.Errorf("catalog result limit must be positive, got: %d", config.Catalog.ResultLimit)
	}

	switch config.Cache.Type {
	case "memory", "none":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}

	return nil
}
