package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/rpggio/transreview/internal/naming"
	"github.com/rpggio/transreview/internal/repository"
)

// maxNameAttempts bounds how far a save walks forward from the current
// second looking for an unused version name.
const maxNameAttempts = 60

// Service reads CSV files paired with their originals and writes edited versions.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new document service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Content returns the text of relPath and of its original counterpart.
//
// For <project>/original/<file>.csv the text is returned as Original and CSV
// is nil. Otherwise CSV holds the file and Original holds
// <project>/original/<origin name>, or nil when that doesn't exist.
func (s *Service) Content(ctx context.Context, relPath string) (*Content, error) {
	parts := splitPath(relPath)
	if len(parts) == 0 || !naming.IsCSV(parts[len(parts)-1]) {
		return nil, ErrNotFound
	}
	rel := strings.Join(parts, "/")

	data, err := s.store.ReadFile(ctx, rel)
	if err != nil {
		return nil, mapStoreError(err, "reading csv")
	}
	text := string(data)

	if isOriginalPath(parts) {
		return &Content{CSV: nil, Original: &text}, nil
	}

	content := &Content{CSV: &text}
	if len(parts) < 2 {
		return content, nil
	}

	originPath := path.Join(parts[0], naming.OriginalDir, naming.OriginName(parts[len(parts)-1]))
	original, err := s.store.ReadFile(ctx, originPath)
	switch {
	case err == nil:
		originalText := string(original)
		content.Original = &originalText
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.logger.Warn("failed to read original", "path", originPath, "error", err)
	}
	return content, nil
}

// SaveVersion writes req.Content as a new edited version of req.SourcePath.
//
// Sources under <project>/original/ are promoted into <project>/. The new
// name keeps the origin base of the source stem and carries the current
// timestamp; if that name is taken the timestamp advances a second at a
// time, so an existing version is never replaced.
func (s *Service) SaveVersion(ctx context.Context, req SaveRequest) (*SavedVersion, error) {
	parts := splitPath(req.SourcePath)
	if len(parts) == 0 || req.Content == "" {
		return nil, ErrInvalidRequest
	}

	dir, stem := versionTarget(parts)
	if stem == "" {
		return nil, fmt.Errorf("%w: no file name in %q", ErrInvalidRequest, req.SourcePath)
	}

	at := s.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		filename := naming.EditedName(stem, at.Add(time.Duration(attempt)*time.Second))
		target := path.Join(dir, filename)

		err := s.store.CreateFile(ctx, target, []byte(req.Content))
		if errors.Is(err, repository.ErrExists) {
			continue
		}
		if err != nil {
			return nil, mapStoreError(err, "saving csv")
		}

		s.logger.Info("saved csv version", "source", req.SourcePath, "path", target, "bytes", len(req.Content))
		return &SavedVersion{Filename: filename, Path: target}, nil
	}
	return nil, fmt.Errorf("saving csv: no free version name for %s after %d attempts", stem, maxNameAttempts)
}

// ListVersions returns every file sharing relPath's origin base name within
// its project: edited versions newest first, then the unedited main copy,
// then the original.
func (s *Service) ListVersions(ctx context.Context, relPath string) ([]Version, error) {
	parts := splitPath(relPath)
	if len(parts) < 2 || !naming.IsCSV(parts[len(parts)-1]) {
		return nil, ErrInvalidPath
	}
	projectName := parts[0]
	base := naming.BaseStem(naming.Stem(parts[len(parts)-1]))

	versions := make([]Version, 0)

	entries, err := s.store.Glob(ctx, projectName, "*"+naming.CSVExt)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, mapStoreError(err, "listing versions")
	}
	for _, entry := range entries {
		stem := naming.Stem(entry.Name)
		if stem == base {
			versions = append(versions, Version{
				Name:     entry.Name,
				Path:     path.Join(projectName, entry.Name),
				Kind:     KindMain,
				Modified: entry.ModTime,
			})
			continue
		}
		editedBase, ts, ok := naming.ParseEdited(stem)
		if !ok || editedBase != base {
			continue
		}
		version := Version{
			Name:     entry.Name,
			Path:     path.Join(projectName, entry.Name),
			Kind:     KindEdited,
			Modified: entry.ModTime,
		}
		if !ts.IsZero() {
			version.Timestamp = &ts
		}
		versions = append(versions, version)
	}

	originalPath := path.Join(projectName, naming.OriginalDir, base+naming.CSVExt)
	if entry, err := s.store.Stat(ctx, originalPath); err == nil {
		versions = append(versions, Version{
			Name:     entry.Name,
			Path:     originalPath,
			Kind:     KindOriginal,
			Modified: entry.ModTime,
		})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, mapStoreError(err, "listing versions")
	}

	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if kindRank(a.Kind) != kindRank(b.Kind) {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		if a.Kind == KindEdited {
			// Names embed the timestamp, so they order the same way.
			return a.Name > b.Name
		}
		return a.Name < b.Name
	})
	return versions, nil
}

func kindRank(kind VersionKind) int {
	switch kind {
	case KindEdited:
		return 0
	case KindMain:
		return 1
	default:
		return 2
	}
}

// versionTarget picks the directory and stem for a new edited version.
func versionTarget(parts []string) (dir, stem string) {
	name := parts[len(parts)-1]
	stem = strings.TrimSuffix(name, path.Ext(name))
	if isOriginalPath(parts) {
		return parts[0], stem
	}
	dir = path.Dir(strings.Join(parts, "/"))
	if dir == "." {
		dir = ""
	}
	return dir, stem
}

// isOriginalPath reports whether parts name <project>/original/<file>.
func isOriginalPath(parts []string) bool {
	return len(parts) >= 3 && parts[1] == naming.OriginalDir
}

func splitPath(relPath string) []string {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" {
		return nil
	}
	return strings.Split(relPath, "/")
}

func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidPath):
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
