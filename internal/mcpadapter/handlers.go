package mcpadapter

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/agent"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
)

type Answerer interface {
	Ask(ctx context.Context, question string) (*agent.Answer, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.SearchResult, error)
}

// AskInput is the MCP tool input schema for ask_document.
type AskInput struct {
	Question string `json:"question" jsonschema:"question about the ingested document"`
}

type AskOutput struct {
	Content    string `json:"content"`
	StopReason string `json:"stop_reason,omitempty"`
	Model      string `json:"model,omitempty"`
}

// SearchInput is the MCP tool input schema for search_document.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to search for"`
	K     int    `json:"k,omitempty" jsonschema:"number of chunks to return (default: configured k)"`
}

type SearchOutput struct {
	Results []models.SearchResult `json:"results"`
}

// NewAskHandler returns a tool handler that answers through the given service.
// Pass the returned function to mcp.AddTool.
func NewAskHandler(answerer Answerer) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
		if strings.TrimSpace(input.Question) == "" {
			return nil, AskOutput{}, agent.ErrEmptyQuestion
		}

		answer, err := answerer.Ask(ctx, input.Question)
		if err != nil {
			return nil, AskOutput{}, err
		}

		return nil, AskOutput{
			Content:    answer.Content,
			StopReason: answer.StopReason,
			Model:      answer.Model,
		}, nil
	}
}

// NewSearchHandler returns a tool handler that runs a similarity search.
func NewSearchHandler(searcher Searcher) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, SearchOutput{}, errors.New("query cannot be empty")
		}

		results, err := searcher.Search(ctx, input.Query, input.K)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		if results == nil {
			results = []models.SearchResult{}
		}

		return nil, SearchOutput{Results: results}, nil
	}
}

// NewServer registers the document tools on a new MCP server
func NewServer(answerer Answerer, searcher Searcher, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pdf-rag",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question using only the ingested PDF. Out-of-context questions get a fixed refusal.",
	}, NewAskHandler(answerer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_document",
		Description: "Return the PDF chunks most similar to a query, best match first.",
	}, NewSearchHandler(searcher))

	return server
}
