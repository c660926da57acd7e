package setup

import (
	"context"
	"testing"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/config"
	bedrockembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/bedrock"
	gptembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/gpt"
	ollamaembedding "github.com/povarna/generative-ai-agents/pdf-rag/internal/embedding/ollama"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm/ollama"
)

func TestEmbeddingModelName(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"bedrock default", config.Config{EmbeddingProvider: config.ProviderBedrock}, bedrockembedding.DefaultModelID},
		{"openai default", config.Config{EmbeddingProvider: config.ProviderOpenAI}, gptembedding.DefaultModelID},
		{"ollama default", config.Config{EmbeddingProvider: config.ProviderOllama}, ollamaembedding.DefaultModel},
		{"override", config.Config{EmbeddingProvider: config.ProviderOpenAI, EmbeddingModel: "text-embedding-3-large"}, "text-embedding-3-large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbeddingModelName(&tt.cfg); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLLMModelName(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:   config.ProviderBedrock,
		ClaudeModelID: "anthropic.claude-3-haiku",
		OpenAIModelID: "gpt-4o-mini",
		OllamaModel:   "llama3.2",
	}

	if got := LLMModelName(cfg); got != "anthropic.claude-3-haiku" {
		t.Errorf("Expected claude model, got %s", got)
	}
	cfg.LLMProvider = config.ProviderOpenAI
	if got := LLMModelName(cfg); got != "gpt-4o-mini" {
		t.Errorf("Expected openai model, got %s", got)
	}
	cfg.LLMProvider = config.ProviderOllama
	if got := LLMModelName(cfg); got != "llama3.2" {
		t.Errorf("Expected ollama model, got %s", got)
	}
}

func TestCreateLLMClient(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:   config.ProviderOpenAI,
		OpenAIKey:     "key",
		OpenAIModelID: "gpt-4o-mini",
		OllamaModel:   "llama3.2",
	}
	shared := &clients{cfg: cfg}

	client, err := createLLMClient(context.Background(), cfg, shared)
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if _, ok := client.(*gpt.Client); !ok {
		t.Errorf("Expected *gpt.Client, got %T", client)
	}

	cfg.LLMProvider = config.ProviderOllama
	client, err = createLLMClient(context.Background(), cfg, shared)
	if err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if _, ok := client.(*ollama.Client); !ok {
		t.Errorf("Expected *ollama.Client, got %T", client)
	}

	cfg.LLMProvider = "mistral"
	if _, err := createLLMClient(context.Background(), cfg, shared); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestCreateEmbedder_SharesOllamaClient(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: config.ProviderOllama, LLMProvider: config.ProviderOllama, OllamaModel: "llama3.2"}
	shared := &clients{cfg: cfg}

	if _, err := createEmbedder(context.Background(), cfg, shared); err != nil {
		t.Fatalf("createEmbedder failed: %v", err)
	}
	first := shared.ollama

	if _, err := createLLMClient(context.Background(), cfg, shared); err != nil {
		t.Fatalf("createLLMClient failed: %v", err)
	}
	if shared.ollama != first {
		t.Error("Expected the embedder and the LLM to share one Ollama client")
	}
}

func TestCreateEmbedder_OpenAIRequiresKey(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: config.ProviderOpenAI}

	if _, err := createEmbedder(context.Background(), cfg, &clients{cfg: cfg}); err == nil {
		t.Error("Expected error for missing OpenAI key")
	}
}

func TestCreateStore_Unsupported(t *testing.T) {
	cfg := &config.Config{VectorStore: "chroma"}

	if _, err := createStore(context.Background(), cfg, nil); err == nil {
		t.Error("Expected error for unknown store")
	}
}

func TestDependencies_CloseRunsInReverse(t *testing.T) {
	var order []int
	deps := &Dependencies{}
	deps.closers = append(deps.closers, func() { order = append(order, 1) }, func() { order = append(order, 2) })

	deps.Close()
	deps.Close()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("Expected closers in reverse order once, got %v", order)
	}
}
