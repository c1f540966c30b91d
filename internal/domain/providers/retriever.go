package providers

import "context"

// SemanticRetriever returns event ids ordered by similarity to a free-text
// query. A nil retriever means semantic search is unavailable and callers
// use keyword ranking instead; a per-request error triggers the same
// fallback for that request only.
type SemanticRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)

	// Size returns the number of indexed vectors.
	Size() int
}
