package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so memory and redis backends behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient defines the interface for searching the store catalog.
// Implementations never fail: errors are reported inside the result.
type CatalogClient interface {
	Search(ctx context.Context, query CatalogQuery) CatalogResult
}

// Completer defines the interface for the LLM completion collaborator
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
