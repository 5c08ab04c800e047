package cmd

import (
	"github.com/spf13/cobra"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/logger"
)

// Exit codes: 2 for bad input (flags, compose file, cycles), 1 for failed runs
const (
	exitFailure   = 1
	exitUserError = 2
)

var (
	debug    bool
	verbose  bool
	jsonLogs bool
	quiet    bool
	version  = "v0.1.0"

	rootCmd = &cobra.Command{
		Use:   "taskcompose",
		Short: "Run tasks from a compose file in dependency order",
		Long: `taskcompose reads a compose file describing tasks and their dependencies,
groups the tasks into levels so that every task runs after the tasks it uses,
and runs each level in parallel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(verbose || debug, jsonLogs, quiet)
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case composeerrors.IsUserError(err):
		return exitUserError
	default:
		return exitFailure
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
