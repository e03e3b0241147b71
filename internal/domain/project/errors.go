package project

import "errors"

var (
	// ErrInvalidProject indicates a project name that cannot be a folder under the data root.
	ErrInvalidProject = errors.New("invalid project name")
)
