// Package commands implements the tddflow CLI. Every command wraps the
// same domain packages the MCP surfaces use; the CLI exists for local
// workflows and for exercising the tools without an MCP client.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/config"
	"github.com/tddworks/tddflow/internal/tddflow/store"
)

// Version is set at build time via ldflags
var Version = "1.0.0"

// RootCmd is the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tddflow",
	Short: "Test-driven development assistant tools",
	Long: `tddflow generates failing tests from requirements, minimal
implementations from tests, runs test suites with coverage, suggests
refactors, validates red-green-refactor adherence against git history,
and tracks features, sessions, tests, and files per project.

The same operations are exposed over the Model Context Protocol by
tddflow serve and the tddflow-mcp binary.`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves runtime configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the persistence backend under the configured data root.
func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(cfg.DataRoot, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
