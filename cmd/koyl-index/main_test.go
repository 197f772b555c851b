package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocuments_RejectsMalformedPattern(t *testing.T) {
	if _, err := loadDocuments([]string{"["}); err == nil {
		t.Fatal("malformed glob pattern should error, not degrade to a literal path")
	}
}

func TestLoadDocuments_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.txt":  "alpha text.",
		"b.md":   "beta markdown.",
		"c.json": `{"skipped": true}`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := loadDocuments([]string{filepath.Join(dir, "*")})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.ID == "" || doc.Content == "" {
			t.Errorf("document not populated: %+v", doc)
		}
	}
}
