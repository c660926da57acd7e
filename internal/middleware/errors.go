package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

// Empty questions are rejected with agent.ErrEmptyQuestion
var (
	ErrEmptyQuery = errors.New("query cannot be empty")
	ErrInvalidK   = errors.New("k must be between 1 and 100")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

func HandleError(resp *restful.Response, err error, status int) {
	errorResponse := ErrorResponse{
		Error: http.StatusText(status),
		Code:  status,
	}
	if err != nil {
		errorResponse.Details = err.Error()
	}

	if err := resp.WriteHeaderAndEntity(status, errorResponse); err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
