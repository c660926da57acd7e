package setup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	ollamaapi "github.com/ollama/ollama/api"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/config"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/database"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding"
	bedrockembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/bedrock"
	gptembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/gpt"
	ollamaembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/ollama"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/ingestion"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm/ollama"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/prompt"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/redis"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/retrieval"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore/pgvector"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore/qdrant"
	"github.com/rs/zerolog/log"
)

const connectRetries = 3

// VectorStore is a Store that can also be reset and counted from the ingest command
type VectorStore interface {
	vectorstore.Store
	DeleteCollection(ctx context.Context) error
	CountDocuments(ctx context.Context) (int64, error)
}

// Dependencies is built once per process and released with Close.
// LLM, Builder and Service are nil when wired for ingestion.
type Dependencies struct {
	Store     VectorStore
	Embedder  embedding.Embedder
	Pipeline  *ingestion.Pipeline
	Retriever *retrieval.Retriever
	LLM       llm.LLMClient
	Builder   *prompt.Builder
	Service   *agent.Service

	closers []func()
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// clients shares the provider SDK clients between the embedder and the LLM
type clients struct {
	cfg     *config.Config
	bedrock *bedrockruntime.Client
	ollama  *ollamaapi.Client
}

func (c *clients) bedrockRuntime(ctx context.Context) (*bedrockruntime.Client, error) {
	if c.bedrock == nil {
		runtime, err := bedrock.NewRuntime(ctx, c.cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		c.bedrock = runtime
	}
	return c.bedrock, nil
}

func (c *clients) ollamaClient() (*ollamaapi.Client, error) {
	if c.ollama == nil {
		client, err := ollama.NewAPIClient(c.cfg.OllamaHost)
		if err != nil {
			return nil, err
		}
		c.ollama = client
	}
	return c.ollama, nil
}

func Wire(ctx context.Context, cfg *config.Config, purpose config.Purpose) (*Dependencies, error) {
	deps := &Dependencies{}
	if err := deps.wire(ctx, cfg, purpose); err != nil {
		deps.Close()
		return nil, err
	}

	return deps, nil
}

// wire fills deps step by step; on error the caller releases whatever was opened
func (deps *Dependencies) wire(ctx context.Context, cfg *config.Config, purpose config.Purpose) error {
	shared := &clients{cfg: cfg}

	embedder, err := createEmbedder(ctx, cfg, shared)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	if purpose == config.PurposeQuery && cfg.Redis.Addr != "" {
		redisClient, err := redis.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, connectRetries)
		if err != nil {
			return err
		}
		cache := redis.NewEmbeddingCache(redisClient, EmbeddingModelName(cfg), cfg.Redis.TTL)
		deps.closers = append(deps.closers, func() { _ = cache.Close() })

		embedder = embedding.NewCachedEmbedder(embedder, cache)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("Query embedding cache enabled")
	}
	deps.Embedder = embedder

	store, err := createStore(ctx, cfg, embedder)
	if err != nil {
		return err
	}
	deps.Store = store
	deps.closers = append(deps.closers, store.Close)

	deps.Pipeline = ingestion.NewPipeline(
		ingestion.NewPDFLoader(),
		ingestion.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		store,
	)
	deps.Retriever = retrieval.NewRetriever(store,
		retrieval.WithK(cfg.RetrievalK),
		retrieval.WithScores(cfg.ShowScores),
	)

	if purpose != config.PurposeQuery {
		return nil
	}

	deps.Builder, err = prompt.NewBuilder(cfg.PromptTemplate)
	if err != nil {
		return err
	}

	deps.LLM, err = createLLMClient(ctx, cfg, shared)
	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	deps.Service = agent.NewService(deps.Retriever, deps.Builder, deps.LLM, agent.ModelConfig{
		ModelID:     LLMModelName(cfg),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})

	log.Info().
		Str("store", cfg.VectorStore).
		Str("collection", cfg.Collection).
		Str("llm", cfg.LLMProvider).
		Str("embedding", cfg.EmbeddingProvider).
		Msg("Dependencies wired")

	return nil
}

func createStore(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) (VectorStore, error) {
	switch cfg.VectorStore {
	case config.StoreQdrant:
		store, err := qdrant.New(qdrant.Config{
			Host:       cfg.Qdrant.Host,
			Port:       cfg.Qdrant.Port,
			APIKey:     cfg.Qdrant.APIKey,
			UseTLS:     cfg.Qdrant.UseTLS,
			Collection: cfg.Collection,
		}, embedder)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePGVector:
		db, err := database.NewWithBackoff(ctx, database.Config{URL: cfg.PGVectorURL}, connectRetries)
		if err != nil {
			return nil, err
		}

		store := pgvector.New(db, embedder, cfg.Collection)
		if err := store.EnsureCollection(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported vector store %q", cfg.VectorStore)
	}
}

func createEmbedder(ctx context.Context, cfg *config.Config, shared *clients) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderBedrock:
		runtime, err := shared.bedrockRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return bedrockembedding.NewEmbedder(runtime, cfg.EmbeddingModel), nil
	case config.ProviderOpenAI:
		return gptembedding.NewEmbedder(cfg.OpenAIKey, cfg.EmbeddingModel)
	case config.ProviderOllama:
		client, err := shared.ollamaClient()
		if err != nil {
			return nil, err
		}
		return ollamaembedding.NewEmbedder(client, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}
}

func createLLMClient(ctx context.Context, cfg *config.Config, shared *clients) (llm.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderBedrock:
		runtime, err := shared.bedrockRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return bedrock.NewClient(runtime, cfg.ClaudeModelID)
	case config.ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case config.ProviderOllama:
		client, err := shared.ollamaClient()
		if err != nil {
			return nil, err
		}
		return ollama.NewClient(client, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// EmbeddingModelName resolves the model the embedder will call
func EmbeddingModelName(cfg *config.Config) string {
	if cfg.EmbeddingModel != "" {
		return cfg.EmbeddingModel
	}

	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		return gptembedding.DefaultModelID
	case config.ProviderOllama:
		return ollamaembedding.DefaultModel
	default:
		return bedrockembedding.DefaultModelID
	}
}

func LLMModelName(cfg *config.Config) string {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return cfg.OpenAIModelID
	case config.ProviderOllama:
		return cfg.OllamaModel
	default:
		return cfg.ClaudeModelID
	}
}
