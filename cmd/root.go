package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/termsense/internal/mux"
)

// Version is injected at build time via -ldflags. Defaults to "dev".
var Version = "dev"

var (
	// Global flags.
	flagMux     string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "termsense",
	Short: "Terminal awareness engine for autonomous command execution",
	Long: `termsense reads terminal screen content and classifies what the session
is doing right now: whether the shell is waiting for interactive input
(password, confirmation, pager, editor, idle prompt), what kind of output
is streaming (progress, compilation, tests, logs, errors, tables), and
what environment the session is in (user, host, virtualenvs, SSH depth).

A snapshot manager captures point-in-time views of this state and computes
deltas, so a calling agent can detect working-directory changes and command
completion between executions.

All classification is deterministic pattern matching over the screen buffer —
best-effort heuristics with confidence scores, not ground truth.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TERMSENSE_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "include raw pane content in output")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

// envOrDefault returns the environment variable value or a fallback.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
