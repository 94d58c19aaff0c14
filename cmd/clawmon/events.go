package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/console"
	"github.com/openclaw/clawmon/internal/events"
)

var (
	eventsLimitFlag     int
	eventsTypeFlag      string
	eventsComponentFlag string
	eventsSeverityFlag  string
	eventsSinceFlag     time.Duration
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the recent event log",
	Long: `Print recent monitor events, newest first. Filters combine: --type,
--component, --severity, and --since narrow the result together.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return fmt.Errorf("event storage unavailable")
		}

		filter := events.Filter{
			Type:      events.EventType(eventsTypeFlag),
			Component: eventsComponentFlag,
			Severity:  events.Severity(eventsSeverityFlag),
			Limit:     eventsLimitFlag,
		}
		if eventsSinceFlag > 0 {
			filter.After = time.Now().Add(-eventsSinceFlag)
		}

		evs, err := store.Query(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		console.RenderEvents(os.Stdout, evs)
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVar(&eventsLimitFlag, "limit", 20, "maximum number of events")
	eventsCmd.Flags().StringVar(&eventsTypeFlag, "type", "", "filter by event type")
	eventsCmd.Flags().StringVar(&eventsComponentFlag, "component", "", "filter by component")
	eventsCmd.Flags().StringVar(&eventsSeverityFlag, "severity", "", "filter by severity")
	eventsCmd.Flags().DurationVar(&eventsSinceFlag, "since", 0, "only events newer than this age (e.g. 24h)")
	rootCmd.AddCommand(eventsCmd)
}
