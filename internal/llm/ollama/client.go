package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm"
)

const DefaultHost = "http://localhost:11434"

type Client struct {
	Client *api.Client
	Model  string
}

// NewAPIClient builds the raw Ollama client; the embedder shares it
func NewAPIClient(host string) (*api.Client, error) {
	if host == "" {
		host = DefaultHost
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return api.NewClient(base, http.DefaultClient), nil
}

func NewClient(client *api.Client, model string) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("Ollama model is required")
	}

	return &Client{
		Client: client,
		Model:  model,
	}, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.Model,
		Messages: []api.Message{
			{Role: "user", Content: request.Prompt},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": request.Temperature,
			"num_predict": request.MaxTokens,
		},
	}

	var content strings.Builder
	var stopReason string
	err := c.Client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			stopReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke ollama model: %w", err)
	}

	return &llm.LLMResponse{
		Content:    content.String(),
		StopReason: stopReason,
	}, nil
}
