package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := serveCmd(&configPath)
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Product gallery service",
		Long: `Serves the product gallery: a searchable card grid with local
edits, a catalog seed and a contact form.

Running without a subcommand starts the server.`,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML or TOML config file")

	rootCmd.AddCommand(
		serve,
		configCmd(&configPath),
		versionCmd(),
	)
	return rootCmd
}
