package retriever

import (
	"context"
	"errors"
	"testing"

	"koyl/internal/domain"
	"koyl/internal/vectorstore/memory"
)

// stubEmbedder maps known queries to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEmbedder) Name() string   { return "stub" }
func (e *stubEmbedder) Dimension() int { return 2 }
func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func testIndex(t *testing.T) *memory.Index {
	t.Helper()
	chunks := []domain.Chunk{
		{ID: "a", Text: "passage a"},
		{ID: "b", Text: "passage b"},
		{ID: "c", Text: "passage c"},
		{ID: "d", Text: "passage d"},
		{ID: "e", Text: "passage e"},
	}
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0.5, 0.5}, {0.1, 0.9}, {0, 1}}
	idx, err := memory.NewIndex(2, chunks, vectors)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	return idx
}

func TestRetrieve_ReturnsTopKMostRelevantFirst(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"diabetes nuts": {1, 0}}}
	r := New(emb, testIndex(t))

	results, err := r.Retrieve(context.Background(), "diabetes nuts")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(results) != DefaultTopK {
		t.Fatalf("expected %d results, got %d", DefaultTopK, len(results))
	}
	if results[0].Chunk.ID != "a" || results[1].Chunk.ID != "b" {
		t.Errorf("results not in relevance order: %s, %s", results[0].Chunk.ID, results[1].Chunk.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

func TestRetrieve_DeterministicForFixedQuery(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {0.6, 0.4}}}
	r := New(emb, testIndex(t))

	first, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	again, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(first) != len(again) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i].Chunk.ID != again[i].Chunk.ID {
			t.Fatalf("ordering changed between calls at %d", i)
		}
	}
}

func TestRetrieve_EmbedderFailurePropagates(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("endpoint down")}
	r := New(emb, testIndex(t))

	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Fatal("expected embedding error")
	}
}
