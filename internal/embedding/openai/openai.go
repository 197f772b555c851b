// Package openai is an OpenAI-compatible embeddings client. It is used
// both when building the index and when embedding queries; the index
// records the model name so the two sides cannot drift apart silently.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// Client implements the Embedder interface over an OpenAI-compatible
// /embeddings endpoint (OpenAI, Groq, a local Ollama, ...). One client
// is shared across concurrent submissions; the lazily learned dimension
// is the only mutable state and is guarded by mu.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client

	mu        sync.Mutex
	dimension int
}

// Config configures the embeddings client. APIKeyEnv is optional: local
// endpoints usually require no authentication.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided
// configuration. If APIKeyEnv is set, the named variable must be
// non-empty.
func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Name returns the model identifier of this embedder.
func (c *Client) Name() string { return c.model }

// Dimension returns the dimensionality of the produced vectors. It is
// zero until the first successful Embed call.
func (c *Client) Dimension() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dimension
}

// Embed returns an embedding vector for the given text. A failure is
// reported as-is; there is no automatic retry.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	type reqBody struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}
	data, _ := json.Marshal(reqBody{Input: text, Model: c.model})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}
	var payload struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
		// Ollama-native shape
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	v := payload.Embedding
	if len(payload.Data) > 0 {
		v = payload.Data[0].Embedding
	}
	if len(v) == 0 {
		return nil, errors.New("no embedding returned")
	}
	c.mu.Lock()
	if c.dimension == 0 {
		c.dimension = len(v)
	}
	c.mu.Unlock()
	return v, nil
}
