package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors become
// INTERNAL with the original message.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, document.ErrNotFound):
		return &APIError{Code: "FILE_NOT_FOUND", Message: "file not found", RecoveryHint: "Call list_files to see available files"}
	case errors.Is(err, document.ErrInvalidPath), errors.Is(err, comment.ErrInvalidPath), errors.Is(err, project.ErrInvalidProject):
		return &APIError{Code: "INVALID_PATH", Message: "invalid path", RecoveryHint: "Use <project>/<file>.csv or <project>/original/<file>.csv"}
	case errors.Is(err, document.ErrInvalidRequest), errors.Is(err, comment.ErrInvalidRequest):
		return &APIError{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
