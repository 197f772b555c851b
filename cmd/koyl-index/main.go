package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"koyl/internal/chunker"
	"koyl/internal/config"
	"koyl/internal/domain"
	"koyl/internal/embedding/openai"
	"koyl/internal/summarizer"
	"koyl/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, outPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&outPath, "out", "", "Index output path (defaults to index.path from config)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: koyl-index [--config=config.yaml] [--out=koyl_index.db] file1.txt [dir/*.md ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if outPath == "" {
		outPath = cfg.Index.Path
	}

	documents, err := loadDocuments(inputs)
	if err != nil {
		log.Fatalf("loading corpus: %v", err)
	}
	if len(documents) == 0 {
		log.Fatalf("no .txt or .md documents found")
	}

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	split := chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	ctx := context.Background()

	var allChunks []domain.Chunk
	var allVectors [][]float32
	var corpus strings.Builder
	for _, doc := range documents {
		chunks, err := split.Chunk(doc)
		if err != nil {
			log.Fatalf("chunking %s: %v", doc.Path, err)
		}
		for _, ch := range chunks {
			vec, err := embedder.Embed(ctx, ch.Text)
			if err != nil {
				log.Fatalf("embedding chunk %s: %v", ch.ID, err)
			}
			allChunks = append(allChunks, ch)
			allVectors = append(allVectors, vec)
		}
		corpus.WriteString(doc.Content)
		corpus.WriteString("\n")
		color.Green("indexed %s (%d chunks)", doc.Path, len(chunks))
	}

	// Build into a temp file and rename, so a failed run never leaves a
	// half-written index behind.
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)
	store, err := sqlite.Create(tmpPath, embedder.Name(), embedder.Dimension())
	if err != nil {
		log.Fatalf("creating index: %v", err)
	}
	if err := store.Append(allChunks, allVectors); err != nil {
		store.Close()
		log.Fatalf("writing index: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Fatalf("closing index: %v", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		log.Fatalf("moving index into place: %v", err)
	}

	summary := summarizer.NewFrequencySummarizer().Summarize(corpus.String(), 3)
	color.Cyan("\nCorpus overview: %s", summary)
	color.Green("\nWrote %s: %d documents, %d chunks, dimension %d", outPath, len(documents), len(allChunks), embedder.Dimension())
}

func loadDocuments(patterns []string) ([]domain.Document, error) {
	var documents []domain.Document
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			lower := strings.ToLower(m)
			if !strings.HasSuffix(lower, ".txt") && !strings.HasSuffix(lower, ".md") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, err
			}
			documents = append(documents, domain.Document{
				ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(m)).String(),
				Path:    m,
				Content: string(data),
			})
		}
	}
	return documents, nil
}
