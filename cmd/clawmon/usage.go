package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/console"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show today's token and cost totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		console.RenderUsage(os.Stdout, buildLedger().Today())
		return nil
	},
}

var usageResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero today's usage totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		buildLedger().Reset(cmd.Context())
		fmt.Println("Usage ledger reset.")
		return nil
	},
}

var (
	usageAddTokens int64
	usageAddCost   float64
	usageAddModel  string
)

var usageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a usage increment",
	Long: `Add tokens and cost to today's ledger under a model ID. Intended for
ingestion from scripts that watch gateway billing output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if usageAddTokens < 0 || usageAddCost < 0 {
			return fmt.Errorf("tokens and cost must be non-negative")
		}
		if usageAddModel == "" {
			return fmt.Errorf("--model is required")
		}
		buildLedger().AddUsage(cmd.Context(), usageAddTokens, usageAddCost, usageAddModel)
		fmt.Printf("Recorded %d tokens ($%.4f) for %s.\n", usageAddTokens, usageAddCost, usageAddModel)
		return nil
	},
}

func init() {
	usageAddCmd.Flags().Int64Var(&usageAddTokens, "tokens", 0, "token count to add")
	usageAddCmd.Flags().Float64Var(&usageAddCost, "cost", 0, "cost in USD to add")
	usageAddCmd.Flags().StringVar(&usageAddModel, "model", "", "model ID the usage belongs to")

	usageCmd.AddCommand(usageResetCmd)
	usageCmd.AddCommand(usageAddCmd)
	rootCmd.AddCommand(usageCmd)
}
