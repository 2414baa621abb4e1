package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/prompt"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes. Errors without a mapping
// are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs", cause: err}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, chat.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), cause: err}
	case errors.Is(err, prompt.ErrMalformedSummary):
		return &APIError{Code: "MALFORMED_SUMMARY", Message: "the model did not return a JSON summary", RecoveryHint: "Retry summarize_agent", cause: err}
	case errors.Is(err, completion.ErrNotConfigured):
		return &APIError{Code: "SERVICE_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Configure a completion provider key", cause: err}
	case errors.Is(err, completion.ErrUnavailable):
		return &APIError{Code: "SERVICE_UNAVAILABLE", Message: err.Error(), cause: err}
	default:
		return err
	}
}
