package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/termsense/internal/config"
	"github.com/timvw/termsense/internal/monitor"
	telem "github.com/timvw/termsense/internal/otel"
	"github.com/timvw/termsense/internal/snapshot"
	"github.com/timvw/termsense/internal/track"
)

var flagSocketPath string

var watchCmd = &cobra.Command{
	Use:   "watch <target>",
	Short: "Live awareness view of a pane",
	Long: `Continuously capture a pane, classify its state, and track snapshots.

The view shows the current input-waiting classification, output pattern,
and environment context, plus a feed of output lines that appeared since
the previous snapshot. Press 's' to save a named snapshot at any point.

Execution metadata (cwd, last command, exit code, idle flag) is accepted
on a unix datagram socket so shell hooks can keep snapshots annotated.

Configuration is loaded from .termsense.yaml or environment variables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args[0])
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagSocketPath, "socket", "",
		"unix datagram socket path for execution-state updates")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, target string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Load configuration: defaults -> config file -> env vars.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata.
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured).
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}
	if tel != nil {
		defer tel.Shutdown(ctx)
	}

	m, err := getMultiplexer()
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	watcher := monitor.NewWatcher(m, target, cfg.HistoryCapacity, cfg.RecentWindow)
	if tel != nil {
		watcher.Metrics = tel.Metrics
	}

	// Execution-state socket: shell hooks push cwd / last command / exit
	// code / idle transitions here.
	socketPath := flagSocketPath
	if socketPath == "" {
		socketPath = cfg.SocketPath
	}
	if socketPath == "" {
		socketPath = track.DefaultSocketPath()
	}
	collector := track.NewCollector(track.SinkFunc(func(u track.Update) {
		watcher.UpdateExternalState(snapshot.ExternalState{
			Cwd:          u.Cwd,
			LastCommand:  u.LastCommand,
			LastExitCode: u.LastExitCode,
			IsIdle:       u.Idle,
		})
		if tel != nil {
			tel.Metrics.RecordStateUpdate(ctx)
		}
	}), socketPath)
	if err := collector.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: execution-state socket unavailable: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "execution-state socket: %s\n", collector.SocketPath())
	}

	tui := &monitor.TUI{
		Watcher:         watcher,
		RefreshInterval: cfg.RefreshDuration,
	}
	return tui.Run(ctx)
}
