package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the inbound chat request is unusable
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUpstreamLLM is returned when the completion call fails. Without
	// extracted terms there is nothing to search, so it is fatal to the request.
	ErrUpstreamLLM = errors.New("LLM completion request failed")

	// ErrCatalogFailure marks a failed term search. It is recorded on a
	// CatalogResult and never aborts the pipeline.
	ErrCatalogFailure = errors.New("catalog search request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnsupportedLocale is returned when no price format matches the configured locale
	ErrUnsupportedLocale = errors.New("unsupported locale")
)
