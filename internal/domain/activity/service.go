package activity

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
)

// Service reports recent review activity. Nothing is logged anywhere; every
// call rescans the tree.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// GetRecentActivity lists edits and comment saves, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.ActivityType != nil && *opts.ActivityType != TypeEdit && *opts.ActivityType != TypeComment {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, *opts.ActivityType)
	}

	projects, err := s.projects(ctx, opts.Project)
	if err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, 0)
	for _, proj := range projects {
		if wants(opts, TypeEdit) {
			edits, err := s.edits(ctx, proj)
			if err != nil {
				return nil, err
			}
			entries = append(entries, edits...)
		}
		if wants(opts, TypeComment) {
			comments, err := s.comments(ctx, proj)
			if err != nil {
				return nil, err
			}
			entries = append(entries, comments...)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].Path < entries[j].Path
	})
	if limit := opts.limit(); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Service) projects(ctx context.Context, only string) ([]string, error) {
	if only = strings.Trim(only, "/"); only != "" {
		if strings.Contains(only, "/") {
			return nil, fmt.Errorf("%w: project %q", ErrInvalidInput, only)
		}
		return []string{only}, nil
	}
	dirs, err := s.store.ListDirs(ctx, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projects := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if !strings.HasPrefix(dir, ".") {
			projects = append(projects, dir)
		}
	}
	return projects, nil
}

func (s *Service) edits(ctx context.Context, proj string) ([]ActivityEntry, error) {
	files, err := s.glob(ctx, proj, "*_edited_*"+naming.CSVExt)
	if err != nil {
		return nil, err
	}
	out := make([]ActivityEntry, 0, len(files))
	for _, f := range files {
		_, ts, ok := naming.ParseEdited(naming.Stem(f.Name))
		if !ok {
			continue
		}
		if ts.IsZero() {
			ts = f.ModTime
		}
		out = append(out, ActivityEntry{
			Project:      proj,
			File:         f.Name,
			Path:         path.Join(proj, f.Name),
			ActivityType: TypeEdit,
			Timestamp:    ts,
		})
	}
	return out, nil
}

func (s *Service) comments(ctx context.Context, proj string) ([]ActivityEntry, error) {
	dir := path.Join(proj, naming.CommentsDir)
	files, err := s.glob(ctx, dir, "*.json")
	if err != nil {
		return nil, err
	}
	out := make([]ActivityEntry, 0, len(files))
	for _, f := range files {
		out = append(out, ActivityEntry{
			Project:      proj,
			File:         strings.TrimSuffix(f.Name, ".json") + naming.CSVExt,
			Path:         path.Join(dir, f.Name),
			ActivityType: TypeComment,
			Timestamp:    f.ModTime,
		})
	}
	return out, nil
}

func (s *Service) glob(ctx context.Context, dir, pattern string) ([]repository.Entry, error) {
	files, err := s.store.Glob(ctx, dir, pattern)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		if errors.Is(err, repository.ErrInvalidPath) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

func wants(opts ListActivityOptions, t ActivityType) bool {
	return opts.ActivityType == nil || *opts.ActivityType == t
}
