// Package cli defines the command-line interface for compass.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mpas-dev/compass/internal/ctxlog"
	"github.com/mpas-dev/compass/internal/logging"
	"github.com/mpas-dev/compass/internal/suite"
)

// Options stores global CLI options shared between commands.
type Options struct {
	LogLevel  string
	LogFormat string
	Suite     *suite.Suite
}

// Execute builds the root command and runs it with the provided args.
func Execute(args []string) error {
	opts := &Options{Suite: suite.Default()}

	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and
// subcommands.
func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compass",
		Short:         "compass sets up and runs MPAS model test cases",
		Long:          "compass is a framework for setting up and running test cases of the MPAS family of climate, ocean and ice-sheet models.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := logging.NewLogger(os.Stderr, logging.ParseLevel(opts.LogLevel), opts.LogFormat)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "pretty", "Log output format (text, json, pretty)")

	cmd.AddCommand(
		newListCommand(opts),
		newSetupCommand(opts),
		newRunCommand(opts),
		newCleanCommand(opts),
	)

	return cmd
}
