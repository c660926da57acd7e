package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/middleware"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/rs/zerolog"
)

type Answerer interface {
	Ask(ctx context.Context, question string) (*agent.Answer, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.SearchResult, error)
}

type Handler struct {
	answerer Answerer
	searcher Searcher
	logger   *zerolog.Logger
}

func NewHandler(answerer Answerer, searcher Searcher, logger *zerolog.Logger) *Handler {
	return &Handler{
		answerer: answerer,
		searcher: searcher,
		logger:   logger,
	}
}

// POST /api/v1/ask
// Body: AskRequest
// Returns: agent.Answer
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest AskRequest
	if err := req.ReadEntity(&askRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := askRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	answer, err := h.answerer.Ask(req.Request.Context(), askRequest.Question)
	if errors.Is(err, agent.ErrEmptyQuestion) {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer question")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("model", answer.Model).
		Str("stop_reason", answer.StopReason).
		Msg("Question answered")

	resp.WriteHeaderAndEntity(http.StatusOK, answer)
}

// POST /api/v1/retrieve
// Body: RetrieveRequest
// Returns: RetrieveResponse
func (h *Handler) Retrieve(req *restful.Request, resp *restful.Response) {
	var retrieveRequest RetrieveRequest
	if err := req.ReadEntity(&retrieveRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := retrieveRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	results, err := h.searcher.Search(req.Request.Context(), retrieveRequest.Query, retrieveRequest.K)
	if err != nil {
		h.logger.Error().Err(err).Msg("Similarity search failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []models.SearchResult{}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, RetrieveResponse{
		Query:   retrieveRequest.Query,
		Results: results,
	})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
