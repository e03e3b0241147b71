package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/transreview/internal/config"
	"github.com/rpggio/transreview/internal/fsstore"
	"github.com/rpggio/transreview/internal/mcp"
	"github.com/rpggio/transreview/internal/transport"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	host      string
	port      int
	staticDir string
	noMCP     bool
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, flags)
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "Listen host")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Listen port")
	cmd.Flags().StringVar(&flags.staticDir, "static", "", "Directory of editor assets served for non-API paths")
	cmd.Flags().BoolVar(&flags.noMCP, "no-mcp", false, "Do not mount the MCP endpoint at /mcp")
	return cmd
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config, flags serveFlags) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flags.port
	}
	if cmd.Flags().Changed("static") {
		cfg.Static.Dir = flags.staticDir
	}
	if flags.noMCP {
		cfg.MCP.Enabled = false
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger, closeLog, err := newLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	defer closeLog()

	lock, err := fsstore.AcquireLock(cfg.Data.Root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}()

	svcs, err := newServices(cfg.Data.Root, logger)
	if err != nil {
		return err
	}

	opts := transport.Options{
		StaticDir: cfg.Static.Dir,
		Logger:    logger.With("component", "http"),
	}
	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(mcp.Config{
			Services: mcp.Services{
				Projects:  svcs.projects,
				Documents: svcs.documents,
				Comments:  svcs.comments,
				Activity:  svcs.activity,
			},
			TransportMode: "http",
			Logger:        logger.With("component", "mcp"),
		})
		opts.MCPHandler = mcp.NewHTTPHandler(mcpServer)
	}

	router := transport.NewServer(transport.Services{
		Projects:  svcs.projects,
		Documents: svcs.documents,
		Comments:  svcs.comments,
		Activity:  svcs.activity,
	}, opts)

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", listener.Addr().String(),
			"data_root", svcs.store.Root(),
			"static_dir", cfg.Static.Dir,
			"mcp", cfg.MCP.Enabled,
		)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return waitForShutdown(parent, logger, httpServer, serveErr)
}

// waitForShutdown blocks until a signal, parent cancellation or a serve
// failure, then drains in-flight requests.
func waitForShutdown(parent context.Context, logger *slog.Logger, server *http.Server, serveErr <-chan error) error {
	ctx, stop := signalContext(parent)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
