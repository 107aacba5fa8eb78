package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenirmoveis/assistant/internal/config"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "api",
		Short: "Customer assistant API: sentiment analysis and cart-recovery copy",
		Long: `Runs the assistant HTTP API.

Without a subcommand the server is started. Configuration is read from the
environment, optionally seeded from a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFile(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
