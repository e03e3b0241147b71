package repository

import "errors"

var (
	// ErrNotFound is returned when a requested file or directory doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when an exclusive create hits an existing file
	ErrExists = errors.New("already exists")

	// ErrInvalidPath is returned when a path is empty or resolves outside the data root
	ErrInvalidPath = errors.New("invalid path")
)
