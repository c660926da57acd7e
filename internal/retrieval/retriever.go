package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore"
	"github.com/rs/zerolog/log"
)

const (
	DefaultK = 10

	// NoContextMessage stands in for the context when the search finds nothing
	NoContextMessage = "Não encontrei informações relevantes no contexto fornecido."

	separator = "\n\n"
)

type Retriever struct {
	store      vectorstore.Store
	k          int
	showScores bool
}

type Option func(*Retriever)

func WithK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.k = k
		}
	}
}

// WithScores prefixes every block with its similarity score
func WithScores(enabled bool) Option {
	return func(r *Retriever) {
		r.showScores = enabled
	}
}

func NewRetriever(store vectorstore.Store, opts ...Option) *Retriever {
	r := &Retriever{
		store: store,
		k:     DefaultK,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Retriever) K() int {
	return r.k
}

func (r *Retriever) Retrieve(ctx context.Context, query string) (string, error) {
	return r.RetrieveK(ctx, query, r.k)
}

// RetrieveK joins the trimmed text of the k best chunks in store order
func (r *Retriever) RetrieveK(ctx context.Context, query string, k int) (string, error) {
	results, err := r.Search(ctx, query, k)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		log.Info().Str("query", query).Msg("No relevant chunks found")
		return NoContextMessage, nil
	}

	return r.format(results), nil
}

// Search returns the raw scored results
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		k = r.k
	}

	results, err := r.store.SimilaritySearchWithScore(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	log.Debug().Int("k", k).Int("results", len(results)).Msg("Similarity search complete")

	return results, nil
}

func (r *Retriever) format(results []models.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, result := range results {
		text := strings.TrimSpace(result.Chunk.Text)
		if r.showScores {
			text = fmt.Sprintf("[score: %.4f]\n%s", result.Score, text)
		}
		blocks = append(blocks, text)
	}

	return strings.Join(blocks, separator)
}
