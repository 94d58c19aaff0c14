package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/logging"
	"github.com/openclaw/clawmon/internal/storage"
)

var (
	configPathFlag string
	logLevelFlag   string
	jsonLogFlag    bool
)

// Shared state initialized by initApp and used by every subcommand.
var (
	paths    *config.Paths
	cfg      *config.Config
	store    events.Store
	recorder *events.Recorder
)

var rootCmd = &cobra.Command{
	Use:   "clawmon",
	Short: "Health and update monitor for OpenClaw",
	Long: `clawmon watches a local OpenClaw installation: whether the watchdog,
gateway, and TUI are alive, whether the gateway port answers, whether the
daily log is fresh, and whether the git checkout is behind its remote.

Pending updates are scanned for dangerous shell constructs and optionally
sent to an AI for a second opinion before an install is allowed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to monitor.yaml (default ~/.openclaw/monitor.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonLogFlag, "json-log", false, "emit logs as JSON instead of console format")
}

// initApp resolves paths, loads config, sets up logging, and opens the
// event store. Nothing here is fatal except an unresolvable home directory.
func initApp(ctx context.Context) error {
	var err error
	paths, err = config.DefaultPaths()
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if configPathFlag != "" {
		paths.MonitorConfigFile = configPathFlag
	}

	var res config.LoadResult
	cfg, res = config.Load(paths.MonitorConfigFile)

	level := cfg.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := "console"
	if jsonLogFlag {
		format = "json"
	}
	logging.Setup(logging.Config{Level: level, Format: format, Component: "clawmon"})

	st, err := storage.New(paths.EventsDB)
	if err != nil {
		log.Warn().Err(err).Str("path", paths.EventsDB).Msg("event storage unavailable, events are log-only")
	} else {
		store = st
	}
	recorder = events.NewRecorder(store)

	if res.Source == config.SourceCorrupt {
		recorder.Recordf(ctx, events.EventTypeConfigCorrupt, events.SeverityWarning,
			fmt.Sprintf("monitor.yaml unreadable, running on defaults: %v", res.Err))
	}

	pruneEvents(ctx)
	return nil
}

// pruneEvents drops events past the retention window. Best-effort.
func pruneEvents(ctx context.Context) {
	if store == nil || cfg.EventRetention <= 0 {
		return
	}
	pruneCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-cfg.EventRetention)
	n, err := store.Prune(pruneCtx, cutoff)
	if err != nil {
		log.Debug().Err(err).Msg("event pruning failed")
		return
	}
	if n > 0 {
		recorder.Recordf(ctx, events.EventTypeEventCleanup, events.SeverityInfo,
			fmt.Sprintf("pruned %d events older than %s", n, cutoff.Format("2006-01-02")))
	}
}
