package activity

import "errors"

// ErrInvalidInput indicates invalid activity filters.
var ErrInvalidInput = errors.New("invalid activity input")
