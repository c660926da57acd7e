package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
)

type fakeAnswerer struct {
	answer *agent.Answer
	err    error
	calls  int
}

func (f *fakeAnswerer) Ask(ctx context.Context, question string) (*agent.Answer, error) {
	f.calls++
	return f.answer, f.err
}

type fakeSearcher struct {
	results []models.SearchResult
	err     error
	gotK    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	f.gotK = k
	return f.results, f.err
}

func TestAskHandler(t *testing.T) {
	answerer := &fakeAnswerer{answer: &agent.Answer{Content: "Paris.", StopReason: "end_turn", Model: "claude"}}
	handler := NewAskHandler(answerer)

	_, out, err := handler(context.Background(), nil, AskInput{Question: "Qual é a capital?"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out.Content != "Paris." || out.Model != "claude" {
		t.Errorf("Unexpected output: %+v", out)
	}
}

func TestAskHandler_Errors(t *testing.T) {
	answerer := &fakeAnswerer{err: errors.New("throttled")}
	handler := NewAskHandler(answerer)

	if _, _, err := handler(context.Background(), nil, AskInput{Question: " "}); !errors.Is(err, agent.ErrEmptyQuestion) {
		t.Errorf("Expected ErrEmptyQuestion, got %v", err)
	}
	if answerer.calls != 0 {
		t.Errorf("Expected no service call for empty question, got %d", answerer.calls)
	}

	if _, _, err := handler(context.Background(), nil, AskInput{Question: "q"}); err == nil {
		t.Error("Expected service error to propagate")
	}
}

func TestSearchHandler(t *testing.T) {
	searcher := &fakeSearcher{results: []models.SearchResult{{Chunk: models.Chunk{ID: "doc-1"}, Score: 0.2}}}
	handler := NewSearchHandler(searcher)

	_, out, err := handler(context.Background(), nil, SearchInput{Query: "q", K: 4})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Chunk.ID != "doc-1" {
		t.Errorf("Unexpected output: %+v", out)
	}
	if searcher.gotK != 4 {
		t.Errorf("Expected k=4, got %d", searcher.gotK)
	}
}

func TestSearchHandler_EmptyResults(t *testing.T) {
	handler := NewSearchHandler(&fakeSearcher{})

	_, out, err := handler(context.Background(), nil, SearchInput{Query: "q"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out.Results == nil {
		t.Error("Expected a non-nil empty result list")
	}
}

func TestNewServer(t *testing.T) {
	if server := NewServer(&fakeAnswerer{}, &fakeSearcher{}, "test"); server == nil {
		t.Fatal("Expected a server")
	}
}
