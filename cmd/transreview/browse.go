package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rpggio/transreview/internal/domain/activity"
)

const timeLayout = "2006-01-02 15:04:05"

// withServices runs fn against services over the configured data root.
func withServices(ctx *commandContext, cmd *cobra.Command, fn func(*services) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	svcs, err := newServices(cfg.Data.Root, quietLogger(cmd.ErrOrStderr(), cfg))
	if err != nil {
		return err
	}
	return fn(svcs)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeTable(cmd *cobra.Command, headers []string, rows [][]string, rightAligned ...int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "(none)")
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, rightAligned...))
	return err
}

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List project folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(ctx, cmd, func(svcs *services) error {
				projects, err := svcs.projects.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"folders": projects})
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{p})
				}
				return writeTable(cmd, []string{"Project"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "files <project>",
		Short: "List the CSV files of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(ctx, cmd, func(svcs *services) error {
				files, err := svcs.projects.ListFiles(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"files": files})
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					source := "main"
					if f.IsOriginal {
						source = "original"
					}
					rows = append(rows, []string{f.Name, source})
				}
				return writeTable(cmd, []string{"File", "Source"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "versions <project>/<file>.csv",
		Short: "List the original, main copy and edited versions of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(ctx, cmd, func(svcs *services) error {
				versions, err := svcs.documents.ListVersions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"versions": versions})
				}
				rows := make([][]string, 0, len(versions))
				for _, v := range versions {
					saved := ""
					if v.Timestamp != nil && !v.Timestamp.IsZero() {
						saved = v.Timestamp.Format(timeLayout)
					}
					rows = append(rows, []string{v.Path, string(v.Kind), saved})
				}
				return writeTable(cmd, []string{"Path", "Kind", "Saved"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newActivityCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var opts activity.ListActivityOptions
	var kind string
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "List recent edits and comment saves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "" {
				t := activity.ActivityType(kind)
				opts.ActivityType = &t
			}
			return withServices(ctx, cmd, func(svcs *services) error {
				entries, err := svcs.activity.GetRecentActivity(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"activity": entries})
				}
				rows := make([][]string, 0, len(entries))
				for i, e := range entries {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						e.Timestamp.Local().Format(timeLayout),
						string(e.ActivityType),
						e.Path,
					})
				}
				return writeTable(cmd, []string{"#", "When", "Type", "Path"}, rows, 0)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Only this project")
	cmd.Flags().StringVar(&kind, "type", "", "Only edit or comment entries")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", activity.DefaultLimit, "Maximum entries")
	return cmd
}
