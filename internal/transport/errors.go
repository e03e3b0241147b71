package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
)

// Messages for the fixed error bodies the editor UI matches on.
const (
	msgNotFound       = "File not found"
	msgInvalidRequest = "Invalid request"
	msgInvalidPath    = "Invalid path"
	msgInvalidFile    = "Invalid file path"
)

// mapError maps domain errors to an HTTP status and error message. Anything
// unrecognised is an internal error carrying the underlying message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, document.ErrInvalidRequest), errors.Is(err, comment.ErrInvalidRequest):
		return http.StatusBadRequest, msgInvalidRequest
	case errors.Is(err, comment.ErrInvalidPath):
		return http.StatusBadRequest, msgInvalidFile
	case errors.Is(err, document.ErrInvalidPath), errors.Is(err, project.ErrInvalidProject):
		return http.StatusBadRequest, msgInvalidPath
	case errors.Is(err, activity.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
