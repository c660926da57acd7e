package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/api"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/middleware"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/rs/zerolog"
)

type MockAnswerer struct {
	answer    *agent.Answer
	err       error
	questions []string
}

func (m *MockAnswerer) Ask(ctx context.Context, question string) (*agent.Answer, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

type MockSearcher struct {
	results []models.SearchResult
	err     error
	gotK    int
}

func (m *MockSearcher) Search(ctx context.Context, query string, k int) ([]models.SearchResult, error) {
	m.gotK = k
	return m.results, m.err
}

func setupTestAPI(t *testing.T, answerer api.Answerer, searcher api.Searcher) *restful.Container {
	t.Helper()

	logger := zerolog.Nop()
	handler := api.NewHandler(answerer, searcher, &logger)

	container := restful.NewContainer()
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	api.RegisterOpenAPI(container)

	return container
}

func postJSON(t *testing.T, container *restful.Container, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t, &MockAnswerer{}, &MockSearcher{})

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_Ask(t *testing.T) {
	answerer := &MockAnswerer{answer: &agent.Answer{
		Question: "Qual é a capital da França?",
		Context:  "Paris is the capital of France.",
		Prompt:   "full prompt",
		Content:  "Paris.",
		Model:    "claude",
	}}
	container := setupTestAPI(t, answerer, &MockSearcher{})

	recorder := postJSON(t, container, "/api/v1/ask", api.AskRequest{Question: "Qual é a capital da França?"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["content"] != "Paris." {
		t.Errorf("Expected content 'Paris.', got %v", response["content"])
	}
	if _, ok := response["prompt"]; ok {
		t.Error("Expected the prompt to stay out of the response")
	}
	if len(answerer.questions) != 1 {
		t.Errorf("Expected one call, got %d", len(answerer.questions))
	}
}

func TestAPI_Ask_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		answerErr  error
		wantStatus int
		wantCalls  int
	}{
		{name: "empty question", body: api.AskRequest{Question: "  "}, wantStatus: http.StatusBadRequest},
		{name: "invalid body", body: "not an object", wantStatus: http.StatusBadRequest},
		{name: "service failure", body: api.AskRequest{Question: "q"}, answerErr: errors.New("bedrock down"), wantStatus: http.StatusInternalServerError, wantCalls: 1},
		{name: "service rejects question", body: api.AskRequest{Question: "q"}, answerErr: agent.ErrEmptyQuestion, wantStatus: http.StatusBadRequest, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answerer := &MockAnswerer{err: tt.answerErr}
			container := setupTestAPI(t, answerer, &MockSearcher{})

			recorder := postJSON(t, container, "/api/v1/ask", tt.body)

			if recorder.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, recorder.Code)
			}
			if len(answerer.questions) != tt.wantCalls {
				t.Errorf("Expected %d calls, got %d", tt.wantCalls, len(answerer.questions))
			}

			var response middleware.ErrorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse error response: %v", err)
			}
			if response.Code != tt.wantStatus {
				t.Errorf("Expected code %d in body, got %d", tt.wantStatus, response.Code)
			}
		})
	}
}

func TestAPI_Retrieve(t *testing.T) {
	searcher := &MockSearcher{results: []models.SearchResult{
		{Chunk: models.Chunk{ID: "doc-3", Text: "best"}, Score: 0.1},
		{Chunk: models.Chunk{ID: "doc-0", Text: "second"}, Score: 0.3},
	}}
	container := setupTestAPI(t, &MockAnswerer{}, searcher)

	recorder := postJSON(t, container, "/api/v1/retrieve", api.RetrieveRequest{Query: "q", K: 2})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response api.RetrieveResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Results) != 2 || response.Results[0].Chunk.ID != "doc-3" {
		t.Errorf("Expected results in store order, got %+v", response.Results)
	}
	if searcher.gotK != 2 {
		t.Errorf("Expected k=2, got %d", searcher.gotK)
	}
}

func TestAPI_Retrieve_EmptyResults(t *testing.T) {
	container := setupTestAPI(t, &MockAnswerer{}, &MockSearcher{})

	recorder := postJSON(t, container, "/api/v1/retrieve", api.RetrieveRequest{Query: "q"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if !bytes.Contains(recorder.Body.Bytes(), []byte(`"results": []`)) && !bytes.Contains(recorder.Body.Bytes(), []byte(`"results":[]`)) {
		t.Errorf("Expected an empty results array, got %s", recorder.Body.String())
	}
}

func TestAPI_Retrieve_InvalidK(t *testing.T) {
	container := setupTestAPI(t, &MockAnswerer{}, &MockSearcher{})

	recorder := postJSON(t, container, "/api/v1/retrieve", api.RetrieveRequest{Query: "q", K: 1000})

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_OpenAPI(t *testing.T) {
	container := setupTestAPI(t, &MockAnswerer{}, &MockSearcher{})

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, api.OpenAPIPath, nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse OpenAPI document: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/v1/ask"]; !ok {
		t.Errorf("Expected /api/v1/ask in OpenAPI paths, got %v", paths)
	}
}

func TestAskRequest_Validate_SharesSentinel(t *testing.T) {
	req := api.AskRequest{Question: " \n "}

	if err := req.Validate(); !errors.Is(err, agent.ErrEmptyQuestion) {
		t.Errorf("Expected agent.ErrEmptyQuestion, got %v", err)
	}
}
