package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", Config{}); err == nil {
		t.Fatal("empty API key should be rejected")
	}
}

func TestGenerate_ReturnsCompletion(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "eat more fiber"}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("gsk_test", Config{BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	out, err := client.Generate(context.Background(), "what should the patient eat?")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "eat more fiber" {
		t.Errorf("unexpected completion %q", out)
	}
	if gotAuth != "Bearer gsk_test" {
		t.Errorf("missing bearer auth, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "what should the patient eat?" {
		t.Errorf("prompt not sent verbatim: %+v", gotBody.Messages)
	}
}

func TestGenerate_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	client, _ := NewClient("bad-key", Config{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client, _ := NewClient("key", Config{BaseURL: server.URL})
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("key", Config{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("unexpected base URL %s", client.baseURL)
	}
	if client.model != defaultModel {
		t.Errorf("unexpected model %s", client.model)
	}
}
