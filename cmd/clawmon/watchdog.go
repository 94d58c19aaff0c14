package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/events"
)

var watchdogCmd = &cobra.Command{
	Use:       "watchdog <start|stop>",
	Short:     "Start or stop the OpenClaw watchdog",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"start", "stop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ctl, err := buildController()
		if err != nil {
			return err
		}

		action := args[0]
		switch action {
		case "start":
			err = ctl.StartWatchdog(ctx)
		case "stop":
			err = ctl.StopWatchdog(ctx)
		default:
			return fmt.Errorf("unknown watchdog action %q", action)
		}
		if err != nil {
			return err
		}

		recorder.Recordf(ctx, events.EventTypeWatchdogToggled, events.SeverityInfo,
			fmt.Sprintf("watchdog %s requested", action))
		fmt.Printf("Watchdog %s requested.\n", action)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchdogCmd)
}
