package embedding

import (
	"context"

	"github.com/rs/zerolog/log"
)

// CachedEmbedder serves repeated questions from a cache. Document batches
// are never cached since every ingest run writes them once.
type CachedEmbedder struct {
	embedder Embedder
	cache    Cache
}

func NewCachedEmbedder(embedder Embedder, cache Cache) *CachedEmbedder {
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache,
	}
}

func (c *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embedder.EmbedDocuments(ctx, texts)
}

func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, ok, err := c.cache.Get(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Embedding cache lookup failed")
	} else if ok {
		log.Debug().Int("dimension", len(vector)).Msg("Embedding cache hit")
		return vector, nil
	}

	vector, err = c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, text, vector); err != nil {
		log.Warn().Err(err).Msg("Embedding cache write failed")
	}

	return vector, nil
}
