package vectorstore

import (
	"context"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore Store

// Store defines the operations the pipeline needs from a vector database.
// Implementations embed the text themselves.
type Store interface {
	// AddDocuments upserts chunks keyed by Chunk.ID
	AddDocuments(ctx context.Context, chunks []models.Chunk) error

	// SimilaritySearchWithScore returns up to k chunks ordered best match first
	SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]models.SearchResult, error)

	// Close releases the underlying connection
	Close()
}
