package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/swipefolio/landing-api/config"
	"github.com/swipefolio/landing-api/internal/log"
)

func newRootCmd(logger *log.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cli",
		Short:        "Operational commands for the Swipefolio landing API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCmd(logger),
		newAdminTokenCmd(),
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	return rootCmd
}

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
