package domain

import "context"

// Document represents a single source text loaded during index building.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a passage of a source document stored in the index.
type Chunk struct {
	ID         string
	DocumentID string
	Text       string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Request carries one patient submission.
type Request struct {
	Condition string
	Allergies string
}

// Recommendation is the generated dietary advice together with the
// passages it was grounded on, in relevance order.
type Recommendation struct {
	Advice  string
	Sources []SearchResult
}

// Embedder converts free text into a numeric vector representation.
// For remote embedders the dimension is only known after the first
// successful Embed call.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns the stored chunks most similar to a free-text query,
// most relevant first.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]SearchResult, error)
}

// Generator produces recommendation prose from a fully rendered prompt.
// One outbound call per invocation, no retries.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor defines the operation exposed by the application core: one
// call per patient submission. The API key is supplied per call and
// never retained beyond it.
type Advisor interface {
	Recommend(ctx context.Context, apiKey string, req Request) (*Recommendation, error)
}
