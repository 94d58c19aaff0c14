package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/events"
)

var restartCmd = &cobra.Command{
	Use:       "restart <gateway|tui|all>",
	Short:     "Restart monitored services via the control script",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"gateway", "tui", "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ctl, err := buildController()
		if err != nil {
			return err
		}

		target := args[0]
		recorder.Recordf(ctx, events.EventTypeRestartStarted, events.SeverityInfo,
			fmt.Sprintf("restarting %s", target))

		switch target {
		case "gateway":
			err = ctl.RestartGateway(ctx)
		case "tui":
			err = ctl.RestartTUI(ctx)
		case "all":
			err = ctl.RestartAll(ctx)
		default:
			return fmt.Errorf("unknown restart target %q", target)
		}
		if err != nil {
			return err
		}

		recorder.Recordf(ctx, events.EventTypeRestartCompleted, events.SeverityInfo,
			fmt.Sprintf("%s restarted", target))
		fmt.Printf("%s restarted.\n", target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
