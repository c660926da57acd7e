package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore"
	"github.com/rs/zerolog/log"
)

// ErrNoDocuments means the source produced no chunks, so there is nothing to answer from
var ErrNoDocuments = errors.New("no documents loaded")

type Pipeline struct {
	loader  Loader
	chunker *Chunker
	store   vectorstore.Store
}

func NewPipeline(loader Loader, chunker *Chunker, store vectorstore.Store) *Pipeline {
	return &Pipeline{
		loader:  loader,
		chunker: chunker,
		store:   store,
	}
}

// Ingest loads the file at path, chunks it and writes the chunks as doc-0..doc-N.
// There is no transaction around the write: a failure part way through leaves
// whatever the store already accepted.
func (p *Pipeline) Ingest(ctx context.Context, path string) (int, error) {
	log.Info().Str("file", path).Msg("Starting ingestion")

	pages, err := p.loader.Load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	splits := p.chunker.SplitDocuments(pages)
	if len(splits) == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrNoDocuments)
	}
	log.Info().Int("chunk_count", len(splits)).Msg("Document chunked successfully")

	chunks := BuildChunks(splits)

	if err := p.store.AddDocuments(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	log.Info().Int("chunks", len(chunks)).Msg("Ingestion complete")

	return len(chunks), nil
}

// BuildChunks cleans metadata and assigns sequential ids in split order
func BuildChunks(splits []models.PageDocument) []models.Chunk {
	chunks := make([]models.Chunk, 0, len(splits))
	for i, split := range splits {
		chunks = append(chunks, models.Chunk{
			ID:       ChunkID(i),
			Text:     split.Text,
			Metadata: CleanMetadata(split.Metadata),
		})
	}

	return chunks
}

func ChunkID(index int) string {
	return fmt.Sprintf("doc-%d", index)
}
