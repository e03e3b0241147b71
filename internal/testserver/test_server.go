package testserver

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
	"github.com/rpggio/transreview/internal/fsstore"
	"github.com/rpggio/transreview/internal/mcp"
	"github.com/rpggio/transreview/internal/transport"
)

// Now is the clock every test server saves versions at.
var Now = time.Date(2024, 3, 15, 9, 30, 5, 0, time.Local)

// TestServer is the full HTTP stack over a temporary data root.
type TestServer struct {
	Server    *httptest.Server
	MCP       *sdkmcp.Server
	Root      string
	StaticDir string
}

// New starts a server with /mcp mounted and a static dir holding
// index.html.
func New(t *testing.T) *TestServer {
	t.Helper()

	root := t.TempDir()
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>review</html>"), 0o644))

	store, err := fsstore.New(root)
	require.NoError(t, err)

	projectSvc := project.NewService(store, nil)
	documentSvc := document.NewService(store, nil, document.WithClock(func() time.Time { return Now }))
	commentSvc := comment.NewService(store, nil)
	activitySvc := activity.NewService(store, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  projectSvc,
			Documents: documentSvc,
			Comments:  commentSvc,
			Activity:  activitySvc,
		},
		TransportMode: "http",
	})

	server := httptest.NewServer(transport.NewServer(transport.Services{
		Projects:  projectSvc,
		Documents: documentSvc,
		Comments:  commentSvc,
		Activity:  activitySvc,
	}, transport.Options{
		StaticDir:  staticDir,
		MCPHandler: mcp.NewHTTPHandler(mcpServer),
	}))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:    server,
		MCP:       mcpServer,
		Root:      root,
		StaticDir: staticDir,
	}
}

// URL returns the absolute URL of path on the server.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// WriteFile creates rel under the data root.
func (ts *TestServer) WriteFile(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(ts.Root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// ReadFile returns the content of rel under the data root.
func (ts *TestServer) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ts.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// Exists reports whether rel exists under the data root.
func (ts *TestServer) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(ts.Root, filepath.FromSlash(rel)))
	return err == nil
}
