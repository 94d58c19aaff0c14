package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/update"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for, install, or ignore OpenClaw updates",
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the checkout against its remote branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		detector, err := buildDetector(ctx, buildVerdictClient(buildLedger()))
		if err != nil {
			return err
		}
		fact, err := detector.Check(ctx)
		if err != nil {
			return err
		}

		printFact(fact)
		return nil
	},
}

var installYesFlag bool

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Check and install the pending update",
	Long: `Run an update check and install what it finds: stop services, pull the
remote branch, reinstall dependencies, rebuild, and restart the gateway.

When the security scan fired and no AI verdict cleared it, an explicit
confirmation listing every warning is required; --yes skips the prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ledger := buildLedger()
		detector, err := buildDetector(ctx, buildVerdictClient(ledger))
		if err != nil {
			return err
		}
		fact, err := detector.Check(ctx)
		if err != nil {
			return err
		}
		printFact(fact)

		decision := gate.Decide(fact)
		if !decision.Allowed {
			return nil
		}

		confirmed := installYesFlag
		if decision.RequiresConfirmation && !confirmed {
			ok, err := promptConfirm(decision)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Install cancelled.")
				return nil
			}
			confirmed = true
		}

		ctl, err := buildController()
		if err != nil {
			return err
		}
		installer, err := buildInstaller(ctx, ctl)
		if err != nil {
			return err
		}

		fmt.Println("Installing update...")
		if err := installer.Install(ctx, fact, confirmed); err != nil {
			if errors.Is(err, gate.ErrConfirmationRequired) {
				return fmt.Errorf("install refused: %w", err)
			}
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Update installed, gateway restarted.\n", green("✓"))
		return nil
	},
}

var updateIgnoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Record that the pending update was dismissed",
	Long: `Log a dismissal of the pending update to the event log. The ignore
itself is session-scoped and never persisted: it lives inside a running
'watch' or 'console' session (each has its own 'ignore' command), so a
one-shot invocation only leaves the event-log record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder.Recordf(cmd.Context(), events.EventTypeUpdateIgnored, events.SeverityInfo,
			"pending update ignored")
		fmt.Println("Ignore recorded in the event log.")
		fmt.Println("Ignoring takes effect inside a running 'watch' or 'console' session; use its 'ignore' command to silence the updates row.")
		return nil
	},
}

// printFact prints an update fact the way the console does.
func printFact(fact *update.Fact) {
	if !fact.UpdateAvailable() {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s OpenClaw is up to date", green("✓"))
		if fact.LocalVersion != "" {
			fmt.Printf(" (v%s)", fact.LocalVersion)
		}
		fmt.Println()
		return
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s %d commits behind", yellow("Update available:"), fact.CommitsBehind)
	if update.CompareVersions(fact.LocalVersion, fact.RemoteVersion) != update.DeltaUnknown {
		fmt.Printf(" (v%s available)", fact.RemoteVersion)
	}
	fmt.Println()
	if fact.Scan != nil {
		fmt.Printf("  %d changed files scanned\n", fact.Scan.FilesChecked)
	}

	red := color.New(color.FgRed).SprintFunc()
	for _, w := range gate.Warnings(fact) {
		fmt.Printf("  %s %s\n", red("!"), w)
	}
	for _, subject := range fact.SecurityCommits {
		fmt.Printf("  security-related commit: %s\n", subject)
	}
}

// promptConfirm runs the blocking security confirmation on stdin.
func promptConfirm(decision gate.Decision) (bool, error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\n%s %s\n\n", red("Security review required:"), decision.Reason)
	for _, w := range decision.Warnings {
		fmt.Printf("  %s %s\n", red("!"), w)
	}
	fmt.Println()

	prompt := yellow("Install anyway? Type 'yes' to proceed [no]: ")
	expected := "yes"
	if decision.Deterrent {
		fmt.Printf("%s\n\n", red("The AI analysis flagged these changes as DANGEROUS."))
		prompt = red("Type 'install anyway' to override, anything else cancels: ")
		expected = "install anyway"
	}

	answer, err := readline.Line(prompt)
	if err != nil {
		// Interrupt or EOF reads as a refusal, never an implicit yes.
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(answer), expected), nil
}

func init() {
	updateInstallCmd.Flags().BoolVar(&installYesFlag, "yes", false, "skip the security confirmation prompt")
	updateCmd.AddCommand(updateCheckCmd)
	updateCmd.AddCommand(updateInstallCmd)
	updateCmd.AddCommand(updateIgnoreCmd)
	rootCmd.AddCommand(updateCmd)
}
