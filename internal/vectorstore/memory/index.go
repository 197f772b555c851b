// Package memory provides the in-memory searcher the advisor queries
// after the persisted index has been loaded. The index is immutable:
// all chunks and vectors are supplied at construction and never change,
// so searches need no locking.
package memory

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"koyl/internal/domain"
)

// Index is an immutable brute-force cosine similarity searcher.
type Index struct {
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float32
}

// NewIndex builds a searcher over the given chunks and vectors. Every
// vector must have the declared dimension.
func NewIndex(dimension int, chunks []domain.Chunk, vectors [][]float32) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dimension)
		}
	}
	return &Index{dimension: dimension, chunks: chunks, vectors: vectors}, nil
}

// Dimension returns the embedding dimension of the stored vectors.
func (x *Index) Dimension() int { return x.dimension }

// Len returns the number of stored chunks.
func (x *Index) Len() int { return len(x.chunks) }

// Search returns up to topK chunks ordered by cosine similarity to the
// query vector, score descending, ties broken by insertion order. The
// ordering is deterministic for a fixed index and query. topK must be
// positive; callers own the retrieval count.
func (x *Index) Search(vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("invalid topK %d", topK)
	}
	if len(vector) != x.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, want %d", len(vector), x.dimension)
	}
	qnorm := norm(vector)
	if qnorm == 0 {
		return nil, errors.New("query vector has zero magnitude")
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		scores[i] = scored{i, cosine(v, vector, qnorm)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, s := range scores[:topK] {
		results = append(results, domain.SearchResult{Chunk: x.chunks[s.idx], Score: s.score})
	}
	return results, nil
}

// cosine computes cosine similarity given a precomputed query norm.
// Stored zero vectors score 0 rather than erroring out a whole search.
func cosine(stored, query []float32, qnorm float64) float64 {
	var dot, snorm2 float64
	for i := range stored {
		s := float64(stored[i])
		dot += s * float64(query[i])
		snorm2 += s * s
	}
	if snorm2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(snorm2) * qnorm)
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}
