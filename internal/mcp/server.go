package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]string, error)
	ListFiles(ctx context.Context, projectName string) ([]project.File, error)
}

// DocumentService defines CSV operations needed by MCP.
type DocumentService interface {
	Content(ctx context.Context, relPath string) (*document.Content, error)
	SaveVersion(ctx context.Context, req document.SaveRequest) (*document.SavedVersion, error)
	ListVersions(ctx context.Context, relPath string) ([]document.Version, error)
}

// CommentService defines comment operations needed by MCP.
type CommentService interface {
	Get(ctx context.Context, filePath string) (json.RawMessage, error)
	Save(ctx context.Context, filePath string, payload json.RawMessage) (*comment.Saved, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Documents DocumentService
	Comments  CommentService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "transreview",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// One call so the middleware runs left to right.
	server.AddReceivingMiddleware(
		transportMiddleware(cfg.TransportMode),
		sessionMiddleware(),
		trafficLoggingMiddleware(logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}

// RunStdio serves server over stdin/stdout until the client disconnects or
// ctx is cancelled.
func RunStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}
