package qdrant

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

const (
	payloadChunkID  = "chunk_id"
	payloadText     = "text"
	payloadMetadata = "metadata"
)

type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// PointsAPI is the part of *qdrant.Client the store uses
type PointsAPI interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Count(ctx context.Context, request *qdrant.CountPoints) (uint64, error)
	Close() error
}

// Store keeps one point per chunk. Scores are cosine similarity, higher is better.
// Safe for concurrent searches.
type Store struct {
	client     PointsAPI
	embedder   embedding.Embedder
	collection string
	ready      atomic.Bool
}

func New(cfg Config, embedder embedding.Embedder) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return NewWithClient(client, embedder, cfg.Collection), nil
}

func NewWithClient(client PointsAPI, embedder embedding.Embedder, collection string) *Store {
	return &Store{
		client:     client,
		embedder:   embedder,
		collection: collection,
	}
}

// EnsureCollection creates a cosine collection sized for dimension if it does not exist
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if s.ready.Load() {
		return nil
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dimension),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
		}
		log.Info().Str("collection", s.collection).Int("dimension", dimension).Msg("Collection created")
	}

	s.ready.Store(true)
	return nil
}

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

	if err := s.EnsureCollection(ctx, len(embeddings[0])); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		payload, err := buildPayload(chunk)
		if err != nil {
			return fmt.Errorf("failed to build payload for %s: %w", chunk.ID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(PointID(s.collection, chunk.ID)),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: payload,
		})
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	log.Info().Int("chunks", len(chunks)).Str("collection", s.collection).Msg("Chunks stored")

	return nil
}

// SimilaritySearchWithScore returns nothing when the collection has not been created yet
func (s *Store) SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	if !s.ready.Load() {
		exists, err := s.client.CollectionExists(ctx, s.collection)
		if err != nil {
			return nil, fmt.Errorf("failed to check collection %s: %w", s.collection, err)
		}
		if !exists {
			log.Warn().Str("collection", s.collection).Msg("Collection does not exist")
			return nil, nil
		}
		s.ready.Store(true)
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to generate query embedding: %w", err)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", s.collection, err)
	}

	return toResults(points), nil
}

// toResults keeps the order Qdrant returned, best match first
func toResults(points []*qdrant.ScoredPoint) []models.SearchResult {
	results := make([]models.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, models.SearchResult{
			Chunk: chunkFromPayload(point.GetPayload()),
			Score: float64(point.GetScore()),
		})
	}

	return results
}

func (s *Store) DeleteCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if !exists {
		log.Warn().Str("collection", s.collection).Msg("Collection not found")
		return nil
	}

	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.collection, err)
	}

	s.ready.Store(false)
	log.Info().Str("collection", s.collection).Msg("Collection deleted")
	return nil
}

func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if !exists {
		return 0, nil
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}

	return int64(count), nil
}

func (s *Store) Close() {
	if err := s.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close qdrant client")
	}
}

// PointID maps a chunk id to a stable UUID, since Qdrant only accepts UUIDs or integers
func PointID(collection, chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(collection+"/"+chunkID)).String()
}
