package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
)

// ProjectService lists projects and their CSV files.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]string, error)
	ListFiles(ctx context.Context, projectName string) ([]project.File, error)
}

// DocumentService reads CSV files and writes edited versions.
type DocumentService interface {
	Content(ctx context.Context, relPath string) (*document.Content, error)
	SaveVersion(ctx context.Context, req document.SaveRequest) (*document.SavedVersion, error)
	ListVersions(ctx context.Context, relPath string) ([]document.Version, error)
}

// CommentService reads and writes comment sidecars.
type CommentService interface {
	Get(ctx context.Context, filePath string) (json.RawMessage, error)
	Save(ctx context.Context, filePath string, payload json.RawMessage) (*comment.Saved, error)
}

// ActivityService reports recent edits and comment saves.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services bundles the domain services behind the API.
type Services struct {
	Projects  ProjectService
	Documents DocumentService
	Comments  CommentService
	Activity  ActivityService
}

// Options configures the router.
type Options struct {
	// StaticDir is served for any GET that matches no API route. Empty
	// disables static serving.
	StaticDir string
	// MCPHandler is mounted at /mcp when non-nil.
	MCPHandler http.Handler
	Logger     *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svcs   Services
	static http.Handler
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svcs Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{svcs: svcs, logger: logger}
	if opts.StaticDir != "" {
		srv.static = newStaticHandler(opts.StaticDir)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(AccessLogMiddleware(logger))
	r.Use(RecoverMiddleware(logger))
	r.Use(CORSMiddleware)

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/folders", srv.handleFolders)
		r.Get("/csv-files", srv.handleFiles)
		r.Get("/csv-files/*", srv.handleFiles)
		r.Get("/csv-content/*", srv.handleContent)
		r.Get("/comments/*", srv.handleComments)
		r.Get("/versions/*", srv.handleVersions)
		r.Get("/activity", srv.handleActivity)
		r.Post("/save-csv", srv.handleSaveCSV)
		r.Post("/save-comments", srv.handleSaveComments)
		r.NotFound(srv.handleFallback)
		r.MethodNotAllowed(srv.handleFallback)
	})

	if opts.MCPHandler != nil {
		r.Handle("/mcp", opts.MCPHandler)
		r.Handle("/mcp/*", opts.MCPHandler)
	}

	r.NotFound(srv.handleFallback)
	r.MethodNotAllowed(srv.handleFallback)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.svcs.Projects.ListProjects(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.svcs.Projects.ListFiles(r.Context(), wildcard(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.svcs.Documents.Content(r.Context(), wildcard(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	data, err := s.svcs.Comments.Get(r.Context(), wildcard(r))
	if err != nil {
		if errors.Is(err, comment.ErrInvalidPath) {
			writeError(w, http.StatusBadRequest, msgInvalidPath)
			return
		}
		s.fail(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.svcs.Documents.ListVersions(r.Context(), wildcard(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListActivityOptions{Project: r.URL.Query().Get("project")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = limit
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		kind := activity.ActivityType(raw)
		opts.ActivityType = &kind
	}

	entries, err := s.svcs.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

func (s *Server) handleSaveCSV(w http.ResponseWriter, r *http.Request) {
	var req SaveCSVRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	saved, err := s.svcs.Documents.SaveVersion(r.Context(), document.SaveRequest{
		SourcePath: req.OriginalPath,
		Content:    req.CSVContent,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"filename": saved.Filename,
		"path":     saved.Path,
	})
}

func (s *Server) handleSaveComments(w http.ResponseWriter, r *http.Request) {
	var req SaveCommentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	saved, err := s.svcs.Comments.Save(r.Context(), req.FilePath, req.CommentsData)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"path":    saved.Path,
	})
}

// handleFallback serves static assets for GET and HEAD and 404s the rest.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if s.static != nil && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		s.static.ServeHTTP(w, r)
		return
	}
	writeError(w, http.StatusNotFound, "Not found")
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapError(err)
	if status >= http.StatusInternalServerError {
		requestID, _ := RequestIDFromContext(r.Context())
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", requestID)
	}
	writeError(w, status, message)
}

// wildcard returns the decoded remainder of a "/*" route.
func wildcard(r *http.Request) string {
	value := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return value
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
