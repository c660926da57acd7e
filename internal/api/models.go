package api

import (
	"strings"

	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/middleware"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
)

const maxK = 100

type AskRequest struct {
	Question string `json:"question" description:"Question about the ingested document"`
}

type RetrieveRequest struct {
	Query string `json:"query" description:"Text to search for"`
	K     int    `json:"k,omitempty" description:"Number of chunks to return (default: configured k)"`
}

type RetrieveResponse struct {
	Query   string                `json:"query" description:"The query as searched"`
	Results []models.SearchResult `json:"results" description:"Chunks ordered best match first"`
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return agent.ErrEmptyQuestion
	}
	return nil
}

func (r *RetrieveRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return middleware.ErrEmptyQuery
	}
	if r.K < 0 || r.K > maxK {
		return middleware.ErrInvalidK
	}
	return nil
}
