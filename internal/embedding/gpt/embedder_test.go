package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/option"
)

func TestNewEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewEmbedder("", ""); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestEmbedder_EmbedDocuments_OrdersByIndex(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.5, 0.5]},
				{"object": "embedding", "index": 0, "embedding": [0.25, 0.75]}
			],
			"usage": {"prompt_tokens": 4, "total_tokens": 4}
		}`))
	}))
	defer server.Close()

	e, err := NewEmbedder("test-key", "", option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewEmbedder failed: %v", err)
	}

	vectors, err := e.EmbedDocuments(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedDocuments failed: %v", err)
	}

	if gotModel != DefaultModelID {
		t.Errorf("Expected model %s, got %s", DefaultModelID, gotModel)
	}
	if vectors[0][0] != 0.25 || vectors[1][0] != 0.5 {
		t.Errorf("Expected vectors ordered by index, got %v", vectors)
	}
}

func TestEmbedder_EmbedDocuments_Empty(t *testing.T) {
	e, _ := NewEmbedder("test-key", "")

	vectors, err := e.EmbedDocuments(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Errorf("Expected no call for empty input, got %v %v", vectors, err)
	}
}

func TestEmbedder_EmbedQuery_DoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	e, err := NewEmbedder("test-key", "", option.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewEmbedder failed: %v", err)
	}

	if _, err := e.EmbedQuery(context.Background(), "q"); err == nil {
		t.Fatal("Expected error from a failing server")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("Expected exactly 1 request, got %d", got)
	}
}
