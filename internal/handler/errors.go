package handler

import (
	"errors"
	"net/http"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/openai"
)

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidFilters),
		errors.Is(err, models.ErrInvalidAction),
		errors.Is(err, models.ErrInvalidBatchSize),
		errors.Is(err, models.ErrMissingPrompt),
		errors.Is(err, models.ErrUnknownContentType),
		errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case openai.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
