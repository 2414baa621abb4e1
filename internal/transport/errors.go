package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/prompt"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, chat.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, prompt.ErrMalformedSummary):
		return http.StatusBadGateway, "MALFORMED_SUMMARY"
	case errors.Is(err, completion.ErrNotConfigured):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case errors.Is(err, completion.ErrUnavailable):
		return http.StatusBadGateway, "SERVICE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
