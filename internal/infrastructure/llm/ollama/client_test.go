package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

func TestGenerateRequestsJSONMode(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  {\"title\":\"ok\"}  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3")
	out, err := client.Generate(context.Background(), "structure this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `{"title":"ok"}` {
		t.Fatalf("response must be trimmed, got %q", out)
	}
	if captured["format"] != "json" {
		t.Fatalf("expected json format request, got %v", captured["format"])
	}
	if captured["prompt"] != "structure this" {
		t.Fatalf("unexpected prompt: %v", captured["prompt"])
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "llama3")
	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("502 must surface as temporary, got %v", err)
	}
}

func TestGenerateBadRequestIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown model", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, "nope")
	_, err := client.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("400 must not be temporary, got %v", err)
	}
}
