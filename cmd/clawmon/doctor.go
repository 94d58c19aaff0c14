package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/probe"
	"github.com/openclaw/clawmon/internal/update"
)

var doctorVerboseFlag bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check monitor installation and environment health",
	Long: `Run health checks to diagnose common configuration and environment
issues:

- OpenClaw install directory and package.json
- git availability
- watchdog control script
- gateway port reachability
- state files (monitor.yaml, usage-stats.json, last-update-check.json)
- daily log file and recent errors in it

Exit codes:
  0 - All checks passed
  1 - One or more checks failed`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running monitor health checks...\n\n")

		var failures, warnings []string

		fmt.Printf("%s Install directory\n", cyan("→"))
		if _, err := os.Stat(filepath.Join(paths.InstallDir, "package.json")); err != nil {
			failures = append(failures, fmt.Sprintf("no OpenClaw checkout at %s", paths.InstallDir))
			fmt.Printf("  %s No package.json in %s\n", red("✗"), paths.InstallDir)
		} else {
			fmt.Printf("  %s Found checkout: %s\n", green("✓"), paths.InstallDir)
			if v := update.ReadPackageVersion(paths.InstallDir); v != "" {
				fmt.Printf("  %s Installed version: %s\n", green("✓"), v)
			}
		}

		fmt.Printf("%s Git availability\n", cyan("→"))
		if gitPath, err := exec.LookPath("git"); err != nil {
			failures = append(failures, "git not found in PATH")
			fmt.Printf("  %s git not found in PATH\n", red("✗"))
		} else {
			fmt.Printf("  %s %s\n", green("✓"), gitPath)
		}

		fmt.Printf("%s Control script\n", cyan("→"))
		if info, err := os.Stat(paths.WatchdogScript); err != nil || info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("watchdog script missing at %s", paths.WatchdogScript))
			fmt.Printf("  %s Not found: %s\n", yellow("⚠"), paths.WatchdogScript)
		} else {
			fmt.Printf("  %s %s\n", green("✓"), paths.WatchdogScript)
		}

		fmt.Printf("%s Gateway port %d\n", cyan("→"), cfg.GatewayPort)
		prober := buildProber()
		if prober.PortResponding(ctx, cfg.GatewayPort) {
			fmt.Printf("  %s Port accepts connections\n", green("✓"))
		} else {
			warnings = append(warnings, fmt.Sprintf("port %d not responding", cfg.GatewayPort))
			fmt.Printf("  %s Port not responding (gateway down?)\n", yellow("⚠"))
		}

		fmt.Printf("%s State files\n", cyan("→"))
		checkStateFile(paths.MonitorConfigFile, &warnings)
		checkStateFile(paths.UsageFile, &warnings)
		checkStateFile(paths.LastCheckFile, &warnings)
		checkStateFile(paths.PrefsFile, &warnings)

		fmt.Printf("%s Daily log\n", cyan("→"))
		checkDailyLog(prober, &warnings)

		fmt.Println()
		switch {
		case len(failures) > 0:
			fmt.Printf("%s %d check(s) failed, %d warning(s)\n", red("✗"), len(failures), len(warnings))
			os.Exit(1)
		case len(warnings) > 0:
			fmt.Printf("%s All critical checks passed, %d warning(s)\n", yellow("⚠"), len(warnings))
		default:
			fmt.Printf("%s All checks passed\n", green("✓"))
		}
	},
}

// checkStateFile reports one state file's load classification.
func checkStateFile(path string, warnings *[]string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		fmt.Printf("  %s %s absent (defaults apply)\n", gray("○"), name)
	case err != nil:
		*warnings = append(*warnings, fmt.Sprintf("%s unreadable: %v", name, err))
		fmt.Printf("  %s %s unreadable\n", yellow("⚠"), name)
	default:
		fmt.Printf("  %s %s (%d bytes)\n", green("✓"), name, len(data))
	}
}

// checkDailyLog reports today's log freshness and surfaces its last error
// lines, the closest the CLI gets to the gateway's own diagnostics.
func checkDailyLog(prober *probe.Prober, warnings *[]string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	logPath := paths.DailyLogFile(time.Now())
	age, exists := prober.LogAge(logPath)
	if !exists {
		*warnings = append(*warnings, fmt.Sprintf("no log file at %s", logPath))
		fmt.Printf("  %s No log file for today: %s\n", yellow("⚠"), logPath)
		return
	}

	if prober.LogFresh(logPath) {
		fmt.Printf("  %s Log fresh (%s old)\n", green("✓"), age.Round(time.Second))
	} else {
		*warnings = append(*warnings, fmt.Sprintf("log stale (%s old)", age.Round(time.Second)))
		fmt.Printf("  %s Log stale (%s old)\n", yellow("⚠"), age.Round(time.Second))
	}

	errLines := probe.RecentLogErrors(logPath, 5)
	if len(errLines) > 0 {
		fmt.Printf("  %s Recent errors in log:\n", yellow("⚠"))
		for _, line := range errLines {
			if doctorVerboseFlag || len(line) <= 120 {
				fmt.Printf("      %s\n", line)
			} else {
				fmt.Printf("      %s\n", strings.TrimSpace(line[:120]))
			}
		}
	}
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorVerboseFlag, "verbose", false, "show full error lines")
	rootCmd.AddCommand(doctorCmd)
}
