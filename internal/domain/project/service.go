package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/rpggio/transreview/internal/naming"
	"github.com/rpggio/transreview/internal/repository"
	"golang.org/x/text/unicode/norm"
)

const csvPattern = "*" + naming.CSVExt

// Service lists projects and their CSV files.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// ListProjects returns the non-hidden folders under the data root, sorted.
// A missing data root yields an empty list.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	dirs, err := s.store.ListDirs(ctx, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if strings.HasPrefix(dir, ".") {
			continue
		}
		projects = append(projects, dir)
	}
	sort.Strings(projects)
	return projects, nil
}

// ListFiles returns the CSV files of a project merged with those of its
// original folder. A file present in both is listed once, from the main
// folder. Missing folders are treated as empty; a name that escapes the
// data root is ErrInvalidProject.
func (s *Service) ListFiles(ctx context.Context, projectName string) ([]File, error) {
	projectName = strings.Trim(projectName, "/")
	if projectName == "" {
		return []File{}, nil
	}

	mainFiles, err := s.glob(ctx, projectName)
	if err != nil {
		return nil, err
	}
	originals, err := s.glob(ctx, path.Join(projectName, naming.OriginalDir))
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(mainFiles)+len(originals))
	seen := make(map[string]struct{}, len(mainFiles))
	for _, entry := range mainFiles {
		files = append(files, File{
			Name:        entry.Name,
			DisplayName: entry.Name,
			IsOriginal:  false,
		})
		seen[nameKey(entry.Name)] = struct{}{}
	}
	for _, entry := range originals {
		if _, ok := seen[nameKey(entry.Name)]; ok {
			continue
		}
		files = append(files, File{
			Name:        entry.Name,
			DisplayName: entry.Name + OriginalLabel,
			IsOriginal:  true,
		})
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	s.logger.Debug("listed project files", "project", projectName, "main", len(mainFiles), "original", len(originals), "total", len(files))
	return files, nil
}

func (s *Service) glob(ctx context.Context, dir string) ([]repository.Entry, error) {
	entries, err := s.store.Glob(ctx, dir, csvPattern)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil
		case errors.Is(err, repository.ErrInvalidPath):
			return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return entries, nil
}

// nameKey makes NFD names (as written by macOS) collide with their NFC twins.
func nameKey(name string) string {
	return norm.NFC.String(name)
}
