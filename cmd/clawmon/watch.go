package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/console"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/update"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll continuously and print each snapshot",
	Long: `Run the scheduler loop: probe every component on the configured
interval and print each classified snapshot. An automatic update check runs
in the background when at least two calendar days have passed since the
last one.

Stops on Ctrl+C without waiting for in-flight probes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		verdict := buildVerdictClient(buildLedger())
		detector, err := buildDetector(ctx, verdict)
		if err != nil {
			return err
		}

		sched, err := buildScheduler(detector, update.NewThrottle(paths.LastCheckFile), &gate.Session{})
		if err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		go sched.Run(ctx)

		for {
			select {
			case <-sigCh:
				// Prompt shutdown: stop ticking and leave. In-flight
				// external calls are abandoned with the process.
				sched.Close()
				return nil
			case snap := <-sched.Snapshots():
				console.RenderReport(os.Stdout, snap)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
