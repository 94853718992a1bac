package handler

import (
	"errors"
	"net/http"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/codeadapt/learn-gateway/internal/response"
	"github.com/codeadapt/learn-gateway/internal/session"
)

// errorMapping pairs a domain error with its HTTP status and API code.
type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

var errorMappings = []errorMapping{
	{session.ErrSessionClosed, http.StatusGone, response.ErrSessionClosed},
	{session.ErrNoTopicSelected, http.StatusConflict, response.ErrNoTopicSelected},
	{session.ErrTopicNotInCourse, http.StatusNotFound, response.ErrTopicNotFound},
	{session.ErrTopicLocked, http.StatusForbidden, response.ErrTopicLocked},
	{session.ErrSuperseded, http.StatusConflict, response.ErrSelectionSuperseded},
	{session.ErrQuizNotReady, http.StatusConflict, response.ErrQuizNotReady},

	{quiz.ErrNoQuiz, http.StatusNotFound, response.ErrNoQuiz},
	{quiz.ErrAnswersLocked, http.StatusConflict, response.ErrAnswersLocked},
	{quiz.ErrUnknownQuestion, http.StatusBadRequest, response.ErrUnknownQuestion},
	{quiz.ErrUnknownOption, http.StatusBadRequest, response.ErrUnknownOption},
	{quiz.ErrIncomplete, http.StatusUnprocessableEntity, response.ErrQuizIncomplete},
	{quiz.ErrAlreadyScored, http.StatusConflict, response.ErrAlreadyScored},
	{quiz.ErrNothingToRetry, http.StatusConflict, response.ErrNothingToRetry},

	{catalog.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{catalog.ErrMalformed, http.StatusBadGateway, response.ErrCatalogMalformed},
	{catalog.ErrUnavailable, http.StatusServiceUnavailable, response.ErrCatalogUnavailable},
}

// mapError resolves err to a status and code. Unknown errors are internal.
func mapError(err error) (int, response.ErrCode) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, response.ErrInternal
}
