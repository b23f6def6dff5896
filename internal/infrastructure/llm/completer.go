package llm

import (
	"fmt"
	"time"

	"github.com/chatcart/backend/internal/domain"
	"go.uber.org/zap"
)

// Provider names accepted by New
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds settings shared by all completion providers
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// New returns the completer for cfg.Provider
func New(cfg Config, logger *zap.Logger) (domain.Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAICompleter(cfg, logger), nil
	case ProviderAnthropic:
		return NewAnthropicCompleter(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
