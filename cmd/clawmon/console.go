package main

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/console"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/update"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive monitoring shell",
	Long: `Open an interactive shell with the full monitor wired up: status
reports, update checks, gated installs with blocking security
confirmations, restarts, usage, and the event log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ledger := buildLedger()
		verdict := buildVerdictClient(ledger)

		detector, err := buildDetector(ctx, verdict)
		if err != nil {
			return err
		}

		ctl, err := buildController()
		if err != nil {
			return err
		}
		installer, err := buildInstaller(ctx, ctl)
		if err != nil {
			return err
		}

		session := &gate.Session{}
		sched, err := buildScheduler(detector, update.NewThrottle(paths.LastCheckFile), session)
		if err != nil {
			return err
		}

		c, err := console.New(console.Config{
			Scheduler:       sched,
			Checker:         detector,
			Installer:       installer,
			Controller:      ctl,
			Ledger:          ledger,
			Store:           store,
			Session:         session,
			Recorder:        recorder,
			ModelConfigPath: paths.OpenClawConfigFile,
		})
		if err != nil {
			return err
		}
		return c.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
