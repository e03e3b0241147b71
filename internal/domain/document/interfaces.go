package document

import (
	"context"

	"github.com/rpggio/transreview/internal/repository"
)

// Store provides the file access the document service needs.
type Store interface {
	Glob(ctx context.Context, dir, pattern string) ([]repository.Entry, error)
	Stat(ctx context.Context, path string) (repository.Entry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	CreateFile(ctx context.Context, path string, data []byte) error
}
