package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/vectorstore/mocks"
	"go.uber.org/mock/gomock"
)

func TestRetrieve_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().SimilaritySearchWithScore(gomock.Any(), "pergunta", DefaultK).Return(nil, nil)

	r := NewRetriever(mockStore)
	got, err := r.Retrieve(context.Background(), "pergunta")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if got != NoContextMessage {
		t.Errorf("Expected %q, got %q", NoContextMessage, got)
	}
}

func TestRetrieve_JoinsInStoreOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().SimilaritySearchWithScore(gomock.Any(), "q", 3).Return([]models.SearchResult{
		{Chunk: models.Chunk{ID: "doc-4", Text: "  best match\n"}, Score: 0.12},
		{Chunk: models.Chunk{ID: "doc-1", Text: "second"}, Score: 0.2},
		{Chunk: models.Chunk{ID: "doc-9", Text: "\tthird "}, Score: 0.35},
	}, nil)

	r := NewRetriever(mockStore, WithK(3))
	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	want := "best match\n\nsecond\n\nthird"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRetrieve_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().SimilaritySearchWithScore(gomock.Any(), "q", DefaultK).Return([]models.SearchResult{
		{Chunk: models.Chunk{Text: "alpha"}, Score: 0.123456},
		{Chunk: models.Chunk{Text: "beta"}, Score: 0.5},
	}, nil)

	r := NewRetriever(mockStore, WithScores(true))
	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	want := "[score: 0.1235]\nalpha\n\n[score: 0.5000]\nbeta"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRetrieveK_OverridesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().SimilaritySearchWithScore(gomock.Any(), "q", 2).Return([]models.SearchResult{
		{Chunk: models.Chunk{Text: "only"}},
	}, nil)

	r := NewRetriever(mockStore)
	if _, err := r.RetrieveK(context.Background(), "q", 2); err != nil {
		t.Fatalf("RetrieveK failed: %v", err)
	}
}

func TestRetrieve_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeErr := errors.New("connection refused")
	mockStore := mocks.NewMockStore(ctrl)
	mockStore.EXPECT().SimilaritySearchWithScore(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storeErr)

	r := NewRetriever(mockStore)
	got, err := r.Retrieve(context.Background(), "q")
	if !errors.Is(err, storeErr) {
		t.Errorf("Expected store error, got %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty context on error, got %q", got)
	}
}

func TestWithK_IgnoresNonPositive(t *testing.T) {
	r := NewRetriever(nil, WithK(0), WithK(-3))
	if r.K() != DefaultK {
		t.Errorf("Expected default k, got %d", r.K())
	}
}
