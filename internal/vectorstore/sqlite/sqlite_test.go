package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"koyl/internal/domain"
)

func buildIndex(t *testing.T, path string) {
	t.Helper()
	store, err := Create(path, "test-embedder", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	chunks := []domain.Chunk{
		{ID: "d1:0", DocumentID: "d1", Text: "low sodium diets help hypertension", Index: 0},
		{ID: "d1:1", DocumentID: "d1", Text: "fiber intake improves glycemic control", Index: 1},
		{ID: "d2:0", DocumentID: "d2", Text: "omega-3 supports cardiovascular health", Index: 0},
	}
	vectors := [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}
	if err := store.Append(chunks, vectors); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	buildIndex(t, path)

	idx, meta, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.EmbedderModel != "test-embedder" {
		t.Errorf("unexpected embedder model %q", meta.EmbedderModel)
	}
	if meta.Dimension != 2 {
		t.Errorf("unexpected dimension %d", meta.Dimension)
	}
	if meta.Chunks != 3 || idx.Len() != 3 {
		t.Errorf("expected 3 chunks, got meta=%d index=%d", meta.Chunks, idx.Len())
	}

	results, err := idx.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results[0].Chunk.Text != "low sodium diets help hypertension" {
		t.Errorf("unexpected best match %q", results[0].Chunk.Text)
	}
}

func TestLoad_PreservesInsertionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	buildIndex(t, path)

	idx, _, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	// a diagonal query ties d1:0 and d1:1; d2:0 aligns exactly
	results, err := idx.Search([]float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if results[0].Chunk.ID != "d2:0" {
		t.Errorf("expected aligned chunk first, got %s", results[0].Chunk.ID)
	}
	if results[1].Chunk.ID != "d1:0" || results[2].Chunk.ID != "d1:1" {
		t.Errorf("tied chunks should keep row order, got %s then %s", results[1].Chunk.ID, results[2].Chunk.ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatal("loading a missing index should error")
	}
}

func TestLoad_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(path, []byte("not a sqlite file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("loading a corrupt index should error")
	}
}

func TestAppend_RejectsDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	store, err := Create(path, "test-embedder", 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer store.Close()

	err = store.Append(
		[]domain.Chunk{{ID: "x", DocumentID: "d", Text: "t"}},
		[][]float32{{1, 2, 3}},
	)
	if err == nil {
		t.Fatal("appending a wrong-dimension vector should error")
	}
}
