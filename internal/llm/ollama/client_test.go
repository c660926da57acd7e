package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm"
)

func TestNewAPIClient_InvalidHost(t *testing.T) {
	if _, err := NewAPIClient("://bad"); err == nil {
		t.Error("Expected error for invalid host")
	}
}

func TestClient_InvokeModel(t *testing.T) {
	var got api.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			Model:      "llama3.2",
			Message:    api.Message{Role: "assistant", Content: "Paris."},
			Done:       true,
			DoneReason: "stop",
		})
	}))
	defer server.Close()

	apiClient, err := NewAPIClient(server.URL)
	if err != nil {
		t.Fatalf("NewAPIClient failed: %v", err)
	}
	client, err := NewClient(apiClient, "llama3.2")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{Prompt: "p", MaxTokens: 64, Temperature: 0.1})
	if err != nil {
		t.Fatalf("InvokeModel failed: %v", err)
	}

	if resp.Content != "Paris." || resp.StopReason != "stop" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if got.Stream == nil || *got.Stream {
		t.Error("Expected non-streaming request")
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "p" {
		t.Errorf("Unexpected messages: %+v", got.Messages)
	}
}
