package embedding

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_embedder.go -package=mocks github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding Embedder,Cache

// Embedder turns text into vectors. Documents are embedded in one batch,
// queries one at a time.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Cache stores query embeddings keyed by text. A miss returns ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Set(ctx context.Context, text string, vector []float32) error
}
