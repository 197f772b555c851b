// Package retriever turns a free-text query into the ordered set of
// index passages that ground a recommendation.
package retriever

import (
	"context"
	"fmt"

	"koyl/internal/domain"
	"koyl/internal/vectorstore/memory"
)

// DefaultTopK is the fixed number of passages retrieved per submission.
const DefaultTopK = 4

// Retriever embeds a query and searches the loaded index. The index
// handle is read-only and shared across submissions.
type Retriever struct {
	embedder domain.Embedder
	index    *memory.Index
	topK     int
}

// New creates a retriever over the given embedder and loaded index.
func New(embedder domain.Embedder, index *memory.Index) *Retriever {
	return &Retriever{embedder: embedder, index: index, topK: DefaultTopK}
}

// Retrieve returns the topK stored chunks most similar to query, most
// relevant first. For a fixed index and query the ordering is stable
// across calls.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.SearchResult, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	results, err := r.index.Search(vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return results, nil
}
