package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/llm"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/prompt"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=mocks/mock_retriever.go -package=mocks github.com/povarna/generative-ai-agents/pdf-rag/internal/agent Retriever

var ErrEmptyQuestion = errors.New("question cannot be empty")

type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

type ModelConfig struct {
	ModelID     string
	MaxTokens   int
	Temperature float64
}

type Answer struct {
	Question   string `json:"question" description:"The question as asked"`
	Context    string `json:"context" description:"Retrieved context passed to the model"`
	Prompt     string `json:"-"`
	Content    string `json:"content" description:"Model answer"`
	StopReason string `json:"stop_reason" description:"Why generation stopped"`
	Model      string `json:"model" description:"Model ID used"`
}

// Service answers a single question: retrieve, build the prompt, invoke the model once
type Service struct {
	retriever Retriever
	builder   *prompt.Builder
	client    llm.LLMClient
	cfg       ModelConfig
}

func NewService(retriever Retriever, builder *prompt.Builder, client llm.LLMClient, cfg ModelConfig) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = llm.DefaultMaxTokens
	}

	return &Service{
		retriever: retriever,
		builder:   builder,
		client:    client,
		cfg:       cfg,
	}
}

func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	retrieved, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	enhancedPrompt, err := s.builder.Build(retrieved, question)
	if err != nil {
		return nil, err
	}

	response, err := s.client.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      enhancedPrompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to invoke model")
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	log.Debug().Str("stop_reason", response.StopReason).Int("prompt_length", len(enhancedPrompt)).Msg("Answer generated")

	return &Answer{
		Question:   question,
		Context:    retrieved,
		Prompt:     enhancedPrompt,
		Content:    response.Content,
		StopReason: response.StopReason,
		Model:      s.cfg.ModelID,
	}, nil
}
