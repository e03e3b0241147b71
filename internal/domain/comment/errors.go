package comment

import "errors"

var (
	// ErrInvalidPath indicates a file path without a project and file segment.
	ErrInvalidPath = errors.New("invalid file path")
	// ErrInvalidRequest indicates a missing or non-JSON comment payload.
	ErrInvalidRequest = errors.New("invalid request")
)
