package llm

import (
	"context"
	"errors"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

const (
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 512
)

// AnthropicCompleter talks to the Anthropic Messages API
type AnthropicCompleter struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAnthropicCompleter creates a completer; an empty BaseURL means api.anthropic.com
func NewAnthropicCompleter(cfg Config, logger *zap.Logger) *AnthropicCompleter {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &AnthropicCompleter{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		timeout:     cfg.Timeout,
		logger:      logger.Named("llm.anthropic"),
	}
}

// Complete sends the system instruction and user message and returns the
// first text block of the reply
func (c *AnthropicCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := c.temperature
	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      systemPrompt,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(userMessage)},
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			c.logger.Debug("completion",
				zap.String("model", string(resp.Model)),
				zap.Int("input_tokens", resp.Usage.InputTokens),
				zap.Int("output_tokens", resp.Usage.OutputTokens),
				zap.Duration("latency", time.Since(start)))
			return *block.Text, nil
		}
	}

	return "", errors.New("completion returned no text content")
}
