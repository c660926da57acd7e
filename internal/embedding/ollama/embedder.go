package ollama

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

const DefaultModel = "nomic-embed-text"

type Embedder struct {
	client *api.Client
	model  string
}

func NewEmbedder(client *api.Client, model string) *Embedder {
	if model == "" {
		model = DefaultModel
	}

	return &Embedder{
		client: client,
		model:  model,
	}
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return embeddings[0], nil
}
