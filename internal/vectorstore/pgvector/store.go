package pgvector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/database"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/rs/zerolog/log"
)

// Store keeps chunks in the langchain_pg_collection / langchain_pg_embedding layout.
// Scores are cosine distance, lower is better.
type Store struct {
	db           *database.DB
	conn         Querier
	embedder     embedding.Embedder
	collection   string
	collectionID string
}

// Querier is the part of *pgxpool.Pool the store uses
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(db *database.DB, embedder embedding.Embedder, collection string) *Store {
	store := newWithConn(nil, embedder, collection)
	if db != nil {
		store.db = db
		store.conn = db.Pool
	}
	return store
}

func newWithConn(conn Querier, embedder embedding.Embedder, collection string) *Store {
	return &Store{
		conn:       conn,
		embedder:   embedder,
		collection: collection,
	}
}

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS langchain_pg_collection (
	uuid UUID PRIMARY KEY,
	name VARCHAR NOT NULL UNIQUE,
	cmetadata JSON
);

CREATE TABLE IF NOT EXISTS langchain_pg_embedding (
	id VARCHAR PRIMARY KEY,
	collection_id UUID REFERENCES langchain_pg_collection (uuid) ON DELETE CASCADE,
	embedding VECTOR,
	document VARCHAR,
	cmetadata JSONB
);`

// EnsureCollection creates the schema and the collection row if missing
func (s *Store) EnsureCollection(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	insert := `
	INSERT INTO langchain_pg_collection (uuid, name, cmetadata)
	VALUES ($1, $2, '{}')
	ON CONFLICT (name) DO NOTHING`

	if _, err := s.conn.Exec(ctx, insert, uuid.NewString(), s.collection); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}

	var id string
	query := `SELECT uuid::text FROM langchain_pg_collection WHERE name = $1`
	if err := s.conn.QueryRow(ctx, query, s.collection).Scan(&id); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", s.collection, err)
	}

	s.collectionID = id
	log.Debug().Str("collection", s.collection).Str("uuid", s.collectionID).Msg("Collection ready")

	return nil
}

// upsertSQL leaves collection_id alone: ids are global, so a row already owned
// by another collection keeps its owner and only its content is replaced.
const upsertSQL = `
	INSERT INTO langchain_pg_embedding (id, collection_id, embedding, document, cmetadata)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		embedding = EXCLUDED.embedding,
		document = EXCLUDED.document,
		cmetadata = EXCLUDED.cmetadata`

// AddDocuments embeds all chunks in one batch and upserts them row by row.
// There is no transaction: rows written before a failure stay written.
func (s *Store) AddDocuments(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embeddings))
	}

	if err := s.ensureCollectionID(ctx); err != nil {
		return err
	}

	for i, chunk := range chunks {
		metadata, err := encodeMetadata(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", chunk.ID, err)
		}

		_, err = s.conn.Exec(ctx, upsertSQL,
			chunk.ID,
			s.collectionID,
			pgvector.NewVector(embeddings[i]),
			chunk.Text,
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
	}

	log.Info().Int("chunks", len(chunks)).Str("collection", s.collection).Msg("Chunks stored")

	return nil
}

// SimilaritySearchWithScore orders by cosine distance, so lower scores are better
func (s *Store) SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if err := s.ensureCollectionID(ctx); err != nil {
		return nil, err
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to generate query embedding: %w", err)
	}

	sql := `
	SELECT
	  id,
	  document,
	  cmetadata,
	  embedding <=> $1 AS distance
	FROM langchain_pg_embedding
	WHERE collection_id = $2
	ORDER BY distance ASC
	LIMIT $3`

	rows, err := s.conn.Query(ctx, sql, pgvector.NewVector(queryEmbedding), s.collectionID, k)
	if err != nil {
		return nil, fmt.Errorf("unable to query the database: %w", err)
	}
	defer rows.Close()

	return collectResults(rows)
}

// collectResults keeps the row order of the query, nearest first
func collectResults(rows pgx.Rows) ([]models.SearchResult, error) {
	var results []models.SearchResult
	for rows.Next() {
		var (
			chunk    models.Chunk
			document *string
			metadata []byte
			distance float64
		)

		if err := rows.Scan(&chunk.ID, &document, &metadata, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if document != nil {
			chunk.Text = *document
		}
		decoded, err := decodeMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", chunk.ID, err)
		}
		chunk.Metadata = decoded

		results = append(results, models.SearchResult{Chunk: chunk, Score: distance})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return results, nil
}

// DeleteCollection drops the collection row; its embeddings go with it
func (s *Store) DeleteCollection(ctx context.Context) error {
	result, err := s.conn.Exec(ctx, `DELETE FROM langchain_pg_collection WHERE name = $1`, s.collection)
	if err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.collection, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("collection", s.collection).Msg("Collection not found")
	} else {
		log.Info().Str("collection", s.collection).Msg("Collection deleted")
	}

	s.collectionID = ""
	return nil
}

func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	query := `
	SELECT count(e.id)
	FROM langchain_pg_embedding e
	JOIN langchain_pg_collection c ON c.uuid = e.collection_id
	WHERE c.name = $1`

	var count int64
	if err := s.conn.QueryRow(ctx, query, s.collection).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Store) ensureCollectionID(ctx context.Context) error {
	if s.collectionID != "" {
		return nil
	}
	return s.EnsureCollection(ctx)
}

func encodeMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(metadata)
}

func decodeMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var metadata map[string]any
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
