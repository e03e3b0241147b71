package fsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rpggio/transreview/internal/repository"
)

// Store is a repository.Store backed by a directory tree
type Store struct {
	root string
}

var _ repository.Store = (*Store)(nil)

// New creates a store rooted at root. The root need not exist yet; reads
// against a missing root report repository.ErrNotFound.
func New(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("data root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute data root.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a slash-separated relative path to an absolute path under
// the root. The empty path is the root itself.
func (s *Store) resolve(rel string) (string, error) {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return s.root, nil
	}
	local := filepath.FromSlash(path.Clean(rel))
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, local), nil
}

func (s *Store) resolveFile(rel string) (string, error) {
	if strings.Trim(rel, "/") == "" {
		return "", fmt.Errorf("%w: empty file path", repository.ErrInvalidPath)
	}
	return s.resolve(rel)
}

func (s *Store) ListDirs(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, mapError(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		// Follow symlinked project folders.
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(abs, entry.Name())); err == nil && info.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Glob(ctx context.Context, dir, pattern string) ([]repository.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", repository.ErrInvalidPath, pattern)
	}
	abs, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, mapError(err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", repository.ErrNotFound, dir)
	}

	matches, err := doublestar.Glob(os.DirFS(abs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
	}

	entries := make([]repository.Entry, 0, len(matches))
	for _, match := range matches {
		name := path.Base(match)
		if strings.HasPrefix(name, ".") {
			continue
		}
		fi, err := os.Stat(filepath.Join(abs, filepath.FromSlash(match)))
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		entries = append(entries, repository.Entry{
			Name:    match,
			ModTime: fi.ModTime(),
			Size:    fi.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *Store) Stat(ctx context.Context, rel string) (repository.Entry, error) {
	if err := ctx.Err(); err != nil {
		return repository.Entry{}, err
	}
	abs, err := s.resolveFile(rel)
	if err != nil {
		return repository.Entry{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return repository.Entry{}, mapError(err)
	}
	if !info.Mode().IsRegular() {
		return repository.Entry{}, fmt.Errorf("%w: %s is not a regular file", repository.ErrNotFound, rel)
	}
	return repository.Entry{Name: info.Name(), ModTime: info.ModTime(), Size: info.Size()}, nil
}

func (s *Store) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	if _, err := s.Stat(ctx, rel); err != nil {
		return nil, err
	}
	abs, err := s.resolveFile(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, mapError(err)
	}
	return data, nil
}

func (s *Store) CreateFile(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolveFile(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", repository.ErrExists, rel)
		}
		return fmt.Errorf("failed to create %s: %w", rel, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", rel, err)
	}
	return nil
}

func (s *Store) WriteFile(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolveFile(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return writeFileAtomic(abs, data, 0o644)
}

func mapError(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	}
	return err
}
