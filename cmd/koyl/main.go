package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"koyl/internal/advisor"
	"koyl/internal/config"
	"koyl/internal/domain"
	"koyl/internal/embedding/openai"
	"koyl/internal/llm/groq"
	"koyl/internal/retriever"
	"koyl/internal/vectorstore/sqlite"
	"koyl/internal/web"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/koyl/config.yaml if not provided)")
	flag.Parse()

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

	// Load-once: the index handle is built here and shared read-only by
	// every request.
	index, meta, err := sqlite.Load(cfg.Index.Path)
	if err != nil {
		log.Fatalf("failed to load index: %v", err)
	}
	if meta.EmbedderModel != "" && meta.EmbedderModel != cfg.Embedder.Model {
		log.Fatalf("index was built with embedder %q but config uses %q", meta.EmbedderModel, cfg.Embedder.Model)
	}
	log.Printf("loaded index %s: %d chunks, dimension %d", cfg.Index.Path, meta.Chunks, meta.Dimension)

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	newGenerator := func(apiKey string) (domain.Generator, error) {
		return groq.NewClient(apiKey, groq.Config{
			BaseURL: cfg.Generator.BaseURL,
			Model:   cfg.Generator.Model,
			Timeout: time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		})
	}

	svc := advisor.NewService(retriever.New(embedder, index), newGenerator)
	server := web.NewServer(svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("koyl advisor listening on %s", cfg.Server.Addr)
	if err := server.Run(ctx, cfg.Server.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
