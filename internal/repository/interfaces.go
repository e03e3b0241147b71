package repository

import (
	"context"
	"time"
)

// Entry describes a regular file in the data tree.
type Entry struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// Store is the filesystem seam under the domain services. All paths are
// slash-separated and relative to the data root.
type Store interface {
	// ListDirs returns the names of the immediate subdirectories of dir.
	ListDirs(ctx context.Context, dir string) ([]string, error)
	// Glob returns the regular, non-hidden files in dir whose names match pattern.
	Glob(ctx context.Context, dir, pattern string) ([]Entry, error)
	// Stat returns metadata for a regular file.
	Stat(ctx context.Context, path string) (Entry, error)
	// ReadFile returns the contents of a regular file.
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// CreateFile writes data to a new file, creating parent directories.
	// It never replaces an existing file.
	CreateFile(ctx context.Context, path string, data []byte) error
	// WriteFile atomically replaces path with data, creating parent directories.
	WriteFile(ctx context.Context, path string, data []byte) error
}
