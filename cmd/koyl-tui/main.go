package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"koyl/internal/advisor"
	"koyl/internal/config"
	"koyl/internal/domain"
	"koyl/internal/embedding/openai"
	"koyl/internal/llm/groq"
	"koyl/internal/retriever"
	"koyl/internal/tui"
	"koyl/internal/vectorstore/sqlite"
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

	// Nothing is loaded and no client is built until the operator has
	// entered a credential; unlock runs on the first key submission.
	unlock := func() (domain.Advisor, error) {
		index, meta, err := sqlite.Load(cfg.Index.Path)
		if err != nil {
			return nil, err
		}
		if meta.EmbedderModel != "" && meta.EmbedderModel != cfg.Embedder.Model {
			log.Printf("warning: index built with embedder %q, config uses %q", meta.EmbedderModel, cfg.Embedder.Model)
		}
		embedder, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Model:     cfg.Embedder.Model,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		newGenerator := func(apiKey string) (domain.Generator, error) {
			return groq.NewClient(apiKey, groq.Config{
				BaseURL: cfg.Generator.BaseURL,
				Model:   cfg.Generator.Model,
				Timeout: time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
			})
		}
		return advisor.NewService(retriever.New(embedder, index), newGenerator), nil
	}

	if _, err := tea.NewProgram(tui.New(unlock)).Run(); err != nil {
		log.Fatal(err)
	}
}
