package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/transreview/internal/config"
	"github.com/rpggio/transreview/internal/domain/activity"
	"github.com/rpggio/transreview/internal/domain/comment"
	"github.com/rpggio/transreview/internal/domain/document"
	"github.com/rpggio/transreview/internal/domain/project"
	"github.com/rpggio/transreview/internal/fsstore"
)

type commandContext struct {
	configFlag *string
	dataFlag   *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, dataFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dataFlag:   dataFlag,
		verbose:    verbose,
	}
}

// ensureConfig loads configuration once. Flags override file and
// environment values.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dataFlag != nil && strings.TrimSpace(*c.dataFlag) != "" {
			cfg.Data.Root = strings.TrimSpace(*c.dataFlag)
		}
		if c.verbose != nil && *c.verbose {
			cfg.Log.Level = "debug"
		}
		c.config = &cfg
	})
	return c.config, c.configErr
}

// services are the domain services over one data root.
type services struct {
	store     *fsstore.Store
	projects  *project.Service
	documents *document.Service
	comments  *comment.Service
	activity  *activity.Service
}

func newServices(root string, logger *slog.Logger) (*services, error) {
	store, err := fsstore.New(root)
	if err != nil {
		return nil, fmt.Errorf("open data root: %w", err)
	}
	return &services{
		store:     store,
		projects:  project.NewService(store, logger.With("component", "project")),
		documents: document.NewService(store, logger.With("component", "document")),
		comments:  comment.NewService(store, logger.With("component", "comment")),
		activity:  activity.NewService(store, logger.With("component", "activity")),
	}, nil
}

// quietLogger is used by the one-shot browse commands.
func quietLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if parseLogLevel(cfg.Log.Level) < level {
		level = parseLogLevel(cfg.Log.Level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
