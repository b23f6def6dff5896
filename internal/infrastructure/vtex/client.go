package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chatcart/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultEnvironment is the public VTEX commerce host suffix
	DefaultEnvironment = "vtexcommercestable.com.br"

	searchPath = "/api/catalog_system/pub/products/search/"

	defaultResultLimit = 4
	// VTEX rejects ranges wider than 50 records
	maxResultLimit = 50

	maxResponseBytes = 10 << 20
	maxErrorBodyLog  = 512
)

// ClientConfig holds the settings for the catalog search client
type ClientConfig struct {
	Account           string
	Environment       string
	BaseURL           string // may contain an {account} placeholder
	AppKey            string
	AppToken          string
	Timeout           time.Duration
	MaxAttempts       int
	RequestsPerSecond float64
	Burst             int
}

// Client searches the VTEX catalog_system public search endpoint.
// Search never fails: every problem degrades to an empty result.
type Client struct {
	httpClient  *http.Client
	cfg         ClientConfig
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new VTEX catalog client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 50
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		backoff:     exponentialBackoff,
		logger:      logger.Named("vtex"),
	}
}

// exponentialBackoff returns the wait before retry number attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Search runs one term search. Failures are returned inside the result with
// no records; the caller never has to handle an error.
func (c *Client) Search(ctx context.Context, query domain.CatalogQuery) domain.CatalogResult {
	reqURL, err := c.searchURL(query)
	if err != nil {
		c.logger.Warn("invalid search URL", zap.String("term", query.Term), zap.Error(err))
		return domain.CatalogResult{Err: fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			lastErr = fmt.Errorf("rate limiter: %w", err)
			break
		}

		records, status, err := c.do(ctx, reqURL)
		if err == nil {
			c.logger.Debug("catalog search",
				zap.String("term", query.Term),
				zap.Int("records", len(records)),
				zap.Int("attempt", attempt))
			return domain.CatalogResult{Records: records}
		}

		lastErr = err
		c.logger.Warn("catalog search attempt failed",
			zap.String("term", query.Term),
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Error(err))

		// transport errors have status 0 and are retried too
		if status != 0 && !retryable(status) {
			break
		}
	}

	return domain.CatalogResult{Err: fmt.Errorf("%w: %v", domain.ErrCatalogFailure, lastErr)}
}

// do executes one GET and decodes the record array. status is 0 when no
// response was received.
func (c *Client) do(ctx context.Context, reqURL string) ([]domain.CatalogProduct, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "chatcart/1.0")
	if c.cfg.AppKey != "" && c.cfg.AppToken != "" {
		req.Header.Set("X-VTEX-API-AppKey", c.cfg.AppKey)
		req.Header.Set("X-VTEX-API-AppToken", c.cfg.AppToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	// VTEX answers 206 Partial Content for paginated searches
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBodyLog {
			body = body[:maxErrorBodyLog]
		}
		return nil, resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []domain.CatalogProduct
	if err := json.Unmarshal(body, &records); err != nil {
		// a malformed body will not improve on retry
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("failed to decode response: %w", err)
	}

	return records, resp.StatusCode, nil
}

// searchURL builds the search URL for a query
func (c *Client) searchURL(query domain.CatalogQuery) (string, error) {
	account := query.Account
	if account == "" {
		account = c.cfg.Account
	}

	base := c.cfg.BaseURL
	if base == "" {
		if account == "" {
			return "", fmt.Errorf("no catalog account configured")
		}
		base = "https://" + account + "." + c.cfg.Environment
	} else {
		base = strings.ReplaceAll(base, "{account}", account)
	}

	if _, err := url.ParseRequestURI(base); err != nil {
		return "", err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if limit > maxResultLimit {
		limit = maxResultLimit
	}

	params := url.Values{}
	params.Set("_from", "0")
	params.Set("_to", strconv.Itoa(limit-1))

	return strings.TrimRight(base, "/") + searchPath + url.PathEscape(query.Term) + "?" + params.Encode(), nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
