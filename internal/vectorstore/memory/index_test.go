package memory

import (
	"testing"

	"koyl/internal/domain"
)

func chunk(id string) domain.Chunk {
	return domain.Chunk{ID: id, DocumentID: "doc", Text: "text " + id}
}

func TestSearch_OrdersByCosineSimilarity(t *testing.T) {
	idx, err := NewIndex(2,
		[]domain.Chunk{chunk("a"), chunk("b"), chunk("c")},
		[][]float32{{0, 1}, {1, 0}, {1, 1}},
	)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	results, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	got := []string{results[0].Chunk.ID, results[1].Chunk.ID, results[2].Chunk.ID}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", got, want)
		}
	}
}

func TestSearch_DeterministicAcrossCalls(t *testing.T) {
	idx, err := NewIndex(3,
		[]domain.Chunk{chunk("a"), chunk("b"), chunk("c"), chunk("d")},
		[][]float32{{1, 0, 0}, {0.5, 0.5, 0}, {0, 1, 0}, {0.9, 0.1, 0}},
	)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	query := []float32{0.7, 0.3, 0}

	first, err := idx.Search(query, 4)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := idx.Search(query, 4)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		for j := range first {
			if again[j].Chunk.ID != first[j].Chunk.ID || again[j].Score != first[j].Score {
				t.Fatalf("result order changed between calls at %d", j)
			}
		}
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	// identical vectors score identically; insertion order must win
	idx, err := NewIndex(2,
		[]domain.Chunk{chunk("first"), chunk("second"), chunk("third")},
		[][]float32{{1, 1}, {1, 1}, {1, 1}},
	)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	results, err := idx.Search([]float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results[0].Chunk.ID != "first" || results[1].Chunk.ID != "second" || results[2].Chunk.ID != "third" {
		t.Fatalf("tie-break should preserve insertion order, got %s %s %s",
			results[0].Chunk.ID, results[1].Chunk.ID, results[2].Chunk.ID)
	}
}

func TestSearch_ClampsTopK(t *testing.T) {
	idx, err := NewIndex(2, []domain.Chunk{chunk("a")}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	results, err := idx.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearch_RejectsBadQueries(t *testing.T) {
	idx, err := NewIndex(2, []domain.Chunk{chunk("a")}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if _, err := idx.Search([]float32{1, 0, 0}, 1); err == nil {
		t.Error("dimension mismatch should error")
	}
	if _, err := idx.Search([]float32{0, 0}, 1); err == nil {
		t.Error("zero-magnitude query should error")
	}
	if _, err := idx.Search([]float32{1, 0}, 0); err == nil {
		t.Error("non-positive topK should error")
	}
	if _, err := idx.Search([]float32{1, 0}, -3); err == nil {
		t.Error("negative topK should error")
	}
}

func TestNewIndex_ValidatesShape(t *testing.T) {
	if _, err := NewIndex(0, nil, nil); err == nil {
		t.Error("zero dimension should error")
	}
	if _, err := NewIndex(2, []domain.Chunk{chunk("a")}, nil); err == nil {
		t.Error("length mismatch should error")
	}
	if _, err := NewIndex(2, []domain.Chunk{chunk("a")}, [][]float32{{1}}); err == nil {
		t.Error("wrong vector dimension should error")
	}
}
