package comment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rpggio/transreview/internal/naming"
	"github.com/rpggio/transreview/internal/repository"
)

// Empty is returned for files that have no sidecar yet.
var Empty = json.RawMessage(`{}`)

// Saved reports where a comment sidecar was written.
type Saved struct {
	Path string `json:"path"`
}

// Service reads and writes review comment sidecars. Payloads are opaque
// JSON and are never decoded into a schema.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new comment service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// SidecarPath maps <project>/<file>.csv, or <project>/original/<file>.csv,
// to <project>/comments/<file>.json.
func SidecarPath(filePath string) (string, error) {
	parts := strings.Split(strings.Trim(filePath, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", ErrInvalidPath
	}
	name := parts[1]
	if len(parts) == 3 && parts[1] == naming.OriginalDir {
		name = parts[2]
	}
	stem := naming.Stem(name)
	if stem == "" {
		return "", ErrInvalidPath
	}
	return path.Join(parts[0], naming.CommentsDir, stem+".json"), nil
}

// Get returns the stored sidecar bytes for filePath verbatim, or Empty.
func (s *Service) Get(ctx context.Context, filePath string) (json.RawMessage, error) {
	sidecar, err := SidecarPath(filePath)
	if err != nil {
		return nil, err
	}
	data, err := s.store.ReadFile(ctx, sidecar)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return Empty, nil
		case errors.Is(err, repository.ErrInvalidPath):
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		return nil, fmt.Errorf("reading comments: %w", err)
	}
	return json.RawMessage(data), nil
}

// Save overwrites the sidecar for filePath with payload, indented two
// spaces with key order kept.
func (s *Service) Save(ctx context.Context, filePath string, payload json.RawMessage) (*Saved, error) {
	if strings.Trim(filePath, "/") == "" || isNull(payload) {
		return nil, ErrInvalidRequest
	}
	sidecar, err := SidecarPath(filePath)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	data := literalUnicode(buf.Bytes())
	if err := s.store.WriteFile(ctx, sidecar, data); err != nil {
		if errors.Is(err, repository.ErrInvalidPath) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		return nil, fmt.Errorf("saving comments: %w", err)
	}

	s.logger.Info("saved comments", "file", filePath, "path", sidecar, "bytes", len(data))
	return &Saved{Path: sidecar}, nil
}

func isNull(payload json.RawMessage) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// literalUnicode rewrites \uXXXX escapes inside JSON strings as UTF-8.
// Escapes JSON requires, and lone surrogates, are left alone.
func literalUnicode(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			inString = !inString
		case c == '\\' && inString && i+1 < len(data):
			if r, n := decodeEscape(data[i:]); n > 0 {
				out = utf8.AppendRune(out, r)
				i += n - 1
				continue
			}
			out = append(out, c, data[i+1])
			i++
			continue
		}
		out = append(out, c)
	}
	return out
}

// decodeEscape reads one \uXXXX escape, or a surrogate pair, from the
// start of b. It returns n == 0 when the escape must be kept as is.
func decodeEscape(b []byte) (rune, int) {
	r, ok := hex4(b)
	if !ok {
		return 0, 0
	}
	if utf16.IsSurrogate(r) {
		low, ok := hex4(b[6:])
		if !ok {
			return 0, 0
		}
		pair := utf16.DecodeRune(r, low)
		if pair == utf8.RuneError {
			return 0, 0
		}
		return pair, 12
	}
	if r < 0x20 || r == '"' || r == '\\' {
		return 0, 0
	}
	return r, 6
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
