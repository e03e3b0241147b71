package project

import (
	"context"

	"github.com/rpggio/transreview/internal/repository"
)

// Store provides the directory reads the lister needs.
type Store interface {
	ListDirs(ctx context.Context, dir string) ([]string, error)
	Glob(ctx context.Context, dir, pattern string) ([]repository.Entry, error)
}
