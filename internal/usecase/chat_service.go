package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chatcart/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SelectionMode decides how the records of one term are reduced
type SelectionMode string

const (
	// ModeBest keeps the single best in-stock record per term
	ModeBest SelectionMode = "best"
	// ModeFlatten keeps every record returned for every term
	ModeFlatten SelectionMode = "flatten"
)

const (
	defaultResultLimit = 4
	defaultCacheTTL    = 15 * time.Minute
	defaultReplyPrefix = "Busqué productos para: "
	termSeparator      = ", "
	catalogCachePrefix = "catalog"
)

// DefaultSystemPrompt instructs the model to answer with pure JSON
const DefaultSystemPrompt = `Eres un asistente de compras experto. Tu trabajo es interpretar lo que pide el usuario y traducirlo a TÉRMINOS DE BÚSQUEDA para un e-commerce.

Si el usuario dice "quiero hacer un asado", devuelve términos como ["carne", "carbon", "chorizo"].
Si el usuario pide un producto específico, devuelve ese término.

Responde SOLO con JSON puro, sin texto extra, con esta forma:
{"assistant_reply": "una respuesta breve y amable para el usuario", "search_terms": ["termino 1", "termino 2"]}`

// Package-level compiled regex patterns for cache keys
var (
	nonWordRegex        = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// ChatServiceConfig holds configuration for the chat service
type ChatServiceConfig struct {
	Account            string
	ResultLimit        int
	Mode               SelectionMode
	PreferredBrand     string
	SystemPrompt       string
	DefaultReplyPrefix string
	CacheTTL           time.Duration
	// MaxConcurrency caps simultaneous catalog searches; 0 means one per term
	MaxConcurrency int
	Normalizer     *ProductNormalizer
}

// ChatService turns a shopping message into a product list.
// Flow: LLM -> parse terms -> concurrent catalog search -> select -> normalize -> dedupe
type ChatService struct {
	completer      domain.Completer
	catalog        domain.CatalogClient
	cache          domain.CacheRepository
	selector       *CandidateSelector
	normalizer     *ProductNormalizer
	account        string
	resultLimit    int
	mode           SelectionMode
	systemPrompt   string
	replyPrefix    string
	cacheTTL       time.Duration
	maxConcurrency int
	logger         *zap.Logger
}

// NewChatService creates a new chat service with dependencies. cache may be nil.
func NewChatService(
	completer domain.Completer,
	catalog domain.CatalogClient,
	cache domain.CacheRepository,
	config ChatServiceConfig,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}

	resultLimit := config.ResultLimit
	if resultLimit <= 0 {
		resultLimit = defaultResultLimit
	}

	mode := config.Mode
	if mode == "" {
		mode = ModeBest
	}

	systemPrompt := config.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}

	replyPrefix := config.DefaultReplyPrefix
	if replyPrefix == "" {
		replyPrefix = defaultReplyPrefix
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	normalizer := config.Normalizer
	if normalizer == nil {
		normalizer = NewProductNormalizer(NormalizerConfig{})
	}

	return &ChatService{
		completer:      completer,
		catalog:        catalog,
		cache:          cache,
		selector:       NewCandidateSelector(config.PreferredBrand),
		normalizer:     normalizer,
		account:        config.Account,
		resultLimit:    resultLimit,
		mode:           mode,
		systemPrompt:   systemPrompt,
		replyPrefix:    replyPrefix,
		cacheTTL:       cacheTTL,
		maxConcurrency: config.MaxConcurrency,
		logger:         logger.Named("chat"),
	}
}

// Run answers one chat message. Only an unusable message or a failed LLM
// call is an error; failed term searches just contribute no products.
func (s *ChatService) Run(ctx context.Context, message string) (*domain.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()

	raw, err := s.completer.Complete(ctx, s.systemPrompt, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamLLM, err)
	}

	extraction := ParseExtraction(raw, message)
	results := s.searchAll(ctx, extraction.SearchTerms)

	products := make([]domain.Product, 0, len(results))
	for _, records := range results {
		for _, record := range s.reduce(records) {
			if product, ok := s.normalizer.Normalize(record); ok {
				products = append(products, product)
			}
		}
	}
	products = Dedupe(products)

	s.logger.Info("chat answered",
		zap.Strings("terms", extraction.SearchTerms),
		zap.Int("products", len(products)),
		zap.Duration("latency", time.Since(start)))

	return &domain.ChatResponse{
		Reply:    s.reply(extraction),
		Products: products,
	}, nil
}

// searchAll runs one search per term concurrently. Results are stored by
// term index so output order never depends on completion order.
func (s *ChatService) searchAll(ctx context.Context, terms []string) [][]domain.CatalogProduct {
	results := make([][]domain.CatalogProduct, len(terms))

	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}

	for i, term := range terms {
		g.Go(func() error {
			results[i] = s.search(ctx, term)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// search looks in the cache first and stores successful searches only
func (s *ChatService) search(ctx context.Context, term string) []domain.CatalogProduct {
	key := s.cacheKey(term)

	if records, ok := s.getFromCache(ctx, key); ok {
		return records
	}

	result := s.catalog.Search(ctx, domain.CatalogQuery{
		Account: s.account,
		Term:    term,
		Limit:   s.resultLimit,
	})
	if result.Failed() {
		s.logger.Warn("catalog search failed", zap.String("term", term), zap.Error(result.Err))
		return nil
	}

	s.setInCache(ctx, key, result.Records)
	return result.Records
}

func (s *ChatService) reduce(records []domain.CatalogProduct) []domain.CatalogProduct {
	if s.mode == ModeFlatten {
		return records
	}
	best, ok := s.selector.SelectBest(records)
	if !ok {
		return nil
	}
	return []domain.CatalogProduct{best}
}

func (s *ChatService) reply(extraction domain.ExtractionResult) string {
	if extraction.AssistantReply != nil && strings.TrimSpace(*extraction.AssistantReply) != "" {
		return *extraction.AssistantReply
	}
	return s.replyPrefix + strings.Join(extraction.SearchTerms, termSeparator)
}

// cacheKey format: "catalog:{account}:{limit}:{normalized term}". Terms that
// normalize to nothing are not cached.
func (s *ChatService) cacheKey(term string) string {
	normalized := normalizeForCacheKey(term)
	if normalized == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%d:%s", catalogCachePrefix, s.account, s.resultLimit, normalized)
}

// normalizeForCacheKey lowercases, drops punctuation and collapses whitespace
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = nonWordRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func (s *ChatService) getFromCache(ctx context.Context, key string) ([]domain.CatalogProduct, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var records []domain.CatalogProduct
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, true
}

// setInCache never fails the request; errors are only logged
func (s *ChatService) setInCache(ctx context.Context, key string, records []domain.CatalogProduct) {
	if s.cache == nil || key == "" {
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
