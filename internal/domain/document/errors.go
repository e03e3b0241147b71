package document

import "errors"

var (
	// ErrNotFound indicates the requested CSV file doesn't exist or isn't a CSV.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidRequest indicates missing or empty save inputs.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidPath indicates a malformed path or one outside the data root.
	ErrInvalidPath = errors.New("invalid path")
)
