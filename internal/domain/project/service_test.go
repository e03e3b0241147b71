package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/transreview/internal/domain/project"
	"github.com/rpggio/transreview/internal/repository"
	"github.com/rpggio/transreview/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func entries(names ...string) []repository.Entry {
	out := make([]repository.Entry, 0, len(names))
	for _, name := range names {
		out = append(out, repository.Entry{Name: name})
	}
	return out
}

func TestProjectService_ListProjects(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("ListDirs", ctx, "").Return([]string{"zeta", ".cache", "alpha"}, nil)

	svc := project.NewService(store, nil)
	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "zeta"}, projects)
	store.AssertExpectations(t)
}

func TestProjectService_ListProjectsMissingRoot(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("ListDirs", ctx, "").Return(nil, repository.ErrNotFound)

	svc := project.NewService(store, nil)
	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.NotNil(t, projects)
	require.Empty(t, projects)
}

func TestProjectService_ListProjectsError(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("ListDirs", ctx, "").Return(nil, errors.New("permission denied"))

	svc := project.NewService(store, nil)
	_, err := svc.ListProjects(ctx)
	require.Error(t, err)
}

func TestProjectService_ListFilesMainTakesPrecedence(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("Glob", ctx, "proj", "*.csv").Return(entries("a.csv", "c_edited_20240101_000000.csv"), nil)
	store.On("Glob", ctx, "proj/original", "*.csv").Return(entries("a.csv", "b.csv"), nil)

	svc := project.NewService(store, nil)
	files, err := svc.ListFiles(ctx, "proj")
	require.NoError(t, err)
	require.Equal(t, []project.File{
		{Name: "a.csv", DisplayName: "a.csv", IsOriginal: false},
		{Name: "b.csv", DisplayName: "b.csv (LLM original)", IsOriginal: true},
		{Name: "c_edited_20240101_000000.csv", DisplayName: "c_edited_20240101_000000.csv", IsOriginal: false},
	}, files)
}

func TestProjectService_ListFilesNormalizesNames(t *testing.T) {
	ctx := context.Background()

	nfd := "ga\u0301.csv"
	nfc := "g\u00e1.csv"

	store := &mocks.Store{}
	store.On("Glob", ctx, "proj", "*.csv").Return(entries(nfc), nil)
	store.On("Glob", ctx, "proj/original", "*.csv").Return(entries(nfd), nil)

	svc := project.NewService(store, nil)
	files, err := svc.ListFiles(ctx, "proj")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, nfc, files[0].Name)
	require.False(t, files[0].IsOriginal)
}

func TestProjectService_ListFilesMissingFolders(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("Glob", ctx, "ghost", "*.csv").Return(nil, repository.ErrNotFound)
	store.On("Glob", ctx, "ghost/original", "*.csv").Return(nil, repository.ErrNotFound)

	svc := project.NewService(store, nil)
	files, err := svc.ListFiles(ctx, "ghost")
	require.NoError(t, err)
	require.NotNil(t, files)
	require.Empty(t, files)
}

func TestProjectService_ListFilesInvalidName(t *testing.T) {
	ctx := context.Background()

	store := &mocks.Store{}
	store.On("Glob", ctx, "../etc", "*.csv").Return(nil, repository.ErrInvalidPath)

	svc := project.NewService(store, nil)
	_, err := svc.ListFiles(ctx, "../etc")
	require.ErrorIs(t, err, project.ErrInvalidProject)
}
