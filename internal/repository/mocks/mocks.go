package mocks

import (
	"context"

	"github.com/rpggio/transreview/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Store is a mock for repository.Store.
type Store struct {
	mock.Mock
}

func (m *Store) ListDirs(ctx context.Context, dir string) ([]string, error) {
	args := m.Called(ctx, dir)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Glob(ctx context.Context, dir, pattern string) ([]repository.Entry, error) {
	args := m.Called(ctx, dir, pattern)
	if list, ok := args.Get(0).([]repository.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Stat(ctx context.Context, path string) (repository.Entry, error) {
	args := m.Called(ctx, path)
	if entry, ok := args.Get(0).(repository.Entry); ok {
		return entry, args.Error(1)
	}
	return repository.Entry{}, args.Error(1)
}

func (m *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateFile(ctx context.Context, path string, data []byte) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

func (m *Store) WriteFile(ctx context.Context, path string, data []byte) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

var _ repository.Store = (*Store)(nil)
