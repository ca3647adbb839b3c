package driven

import "context"

// AnalysisCache stores serialized analysis results (Redis).
// Implementations are optional; the service works without one.
type AnalysisCache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key
	Set(ctx context.Context, key string, value []byte) error

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}
