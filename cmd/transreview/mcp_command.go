package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/transreview/internal/mcp"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// stdout carries JSON-RPC; logs must stay on stderr.
			logger, closeLog, err := newLogger(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			svcs, err := newServices(cfg.Data.Root, logger)
			if err != nil {
				return err
			}

			server := mcp.NewServer(mcp.Config{
				Services: mcp.Services{
					Projects:  svcs.projects,
					Documents: svcs.documents,
					Comments:  svcs.comments,
					Activity:  svcs.activity,
				},
				TransportMode: "stdio",
				Logger:        logger.With("component", "mcp"),
			})

			logger.Info("starting stdio transport", "data_root", svcs.store.Root())
			runCtx, stop := signalContext(cmd.Context())
			defer stop()
			if err := mcp.RunStdio(runCtx, server); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("stdio server error", "error", err)
				return err
			}
			return nil
		},
	}
}
