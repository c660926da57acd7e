package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse server url: %v", err)
	}

	return api.NewClient(base, server.Client())
}

func TestEmbedder_EmbedDocuments(t *testing.T) {
	var got api.EmbedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.EmbedResponse{
			Model:      DefaultModel,
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	})

	e := NewEmbedder(client, "")
	vectors, err := e.EmbedDocuments(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedDocuments failed: %v", err)
	}

	if got.Model != DefaultModel {
		t.Errorf("Expected model %s, got %s", DefaultModel, got.Model)
	}
	if len(vectors) != 2 || vectors[1][0] != 0.3 {
		t.Errorf("Unexpected vectors: %v", vectors)
	}
}

func TestEmbedder_EmbedQuery_CountMismatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.EmbedResponse{Model: DefaultModel})
	})

	e := NewEmbedder(client, "")
	if _, err := e.EmbedQuery(context.Background(), "q"); err == nil {
		t.Error("Expected error when no embeddings are returned")
	}
}
