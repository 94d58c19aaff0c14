package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/events"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show the configured AI model",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, res := config.CurrentModel(paths.OpenClawConfigFile)
		if res.Source == config.SourceCorrupt {
			fmt.Printf("Warning: openclaw.json unreadable (%v), showing the default.\n", res.Err)
		}
		fmt.Printf("Current model: %s\n\nAvailable models:\n", config.ModelLabel(current))
		for _, m := range config.AvailableModels {
			marker := " "
			if m.ID == current {
				marker = "*"
			}
			fmt.Printf("  %s %-45s %s\n", marker, m.ID, m.Label)
		}
		return nil
	},
}

var modelSetCmd = &cobra.Command{
	Use:   "set <model-id>",
	Short: "Change the configured AI model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetModel(paths.OpenClawConfigFile, args[0]); err != nil {
			return err
		}
		recorder.Recordf(cmd.Context(), events.EventTypeModelChanged, events.SeverityInfo,
			fmt.Sprintf("model changed to %s", args[0]))
		fmt.Printf("Model set to %s.\n", config.ModelLabel(args[0]))
		return nil
	},
}

func init() {
	modelCmd.AddCommand(modelSetCmd)
	rootCmd.AddCommand(modelCmd)
}
