package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dataFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &dataFlag, &verbose)
	serve := newServeCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           "transreview",
		Short:         "Translation review server for CSV project folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		// Without a subcommand the server runs with default serve flags.
		RunE: serve.RunE,
	}
	rootCmd.Flags().AddFlagSet(serve.Flags())

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVarP(&dataFlag, "data", "d", "", "Data root holding one folder per project")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMCPCommand(ctx))
	rootCmd.AddCommand(newProjectsCommand(ctx))
	rootCmd.AddCommand(newFilesCommand(ctx))
	rootCmd.AddCommand(newVersionsCommand(ctx))
	rootCmd.AddCommand(newActivityCommand(ctx))

	return rootCmd
}
