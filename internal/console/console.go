// Package console is the interactive monitoring shell. It owns all
// presentation state: every command runs on the console's own loop, reads
// engine state through snapshots, and never shares mutable state with the
// scheduler worker.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/control"
	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/scheduler"
	"github.com/openclaw/clawmon/internal/update"
	"github.com/openclaw/clawmon/internal/usage"
)

// CommandHandler handles a specific console command.
type CommandHandler func(args []string) error

// Config holds console collaborators.
type Config struct {
	Scheduler  *scheduler.Scheduler
	Checker    scheduler.UpdateChecker
	Installer  *gate.Installer
	Controller *control.Controller
	Ledger     *usage.Ledger
	Store      events.Store
	Session    *gate.Session
	Recorder   *events.Recorder
	// ModelConfigPath is the openclaw.json used for model read/write.
	ModelConfigPath string
}

// Console is the interactive shell.
type Console struct {
	cfg      Config
	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler
}

// New creates a Console.
func New(cfg Config) (*Console, error) {
	if cfg.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if cfg.Session == nil {
		cfg.Session = &gate.Session{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = events.NewRecorder(nil)
	}
	c := &Console{cfg: cfg, commands: make(map[string]CommandHandler)}
	c.registerCommands()
	return c, nil
}

// Run starts the console loop.
func (c *Console) Run(ctx context.Context) error {
	c.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("clawmon> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	c.rl = rl

	c.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := c.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

func (c *Console) processInput(line string) error {
	parts := strings.Fields(line)
	command := parts[0]
	args := parts[1:]

	if handler, ok := c.commands[command]; ok {
		return handler(args)
	}
	fmt.Printf("Unknown command %q. Type 'help' for available commands.\n", command)
	return nil
}

func (c *Console) registerCommands() {
	c.commands["help"] = c.cmdHelp
	c.commands["?"] = c.cmdHelp
	c.commands["status"] = c.cmdStatus
	c.commands["check"] = c.cmdCheck
	c.commands["install"] = c.cmdInstall
	c.commands["ignore"] = c.cmdIgnore
	c.commands["restart"] = c.cmdRestart
	c.commands["watchdog"] = c.cmdWatchdog
	c.commands["usage"] = c.cmdUsage
	c.commands["events"] = c.cmdEvents
	c.commands["model"] = c.cmdModel
	c.commands["exit"] = c.cmdExit
	c.commands["quit"] = c.cmdExit
}

func (c *Console) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("OpenClaw Monitor console"))
	fmt.Println("Type 'help' for available commands, 'exit' to leave.")
	fmt.Println()
}

func (c *Console) cmdHelp(args []string) error {
	fmt.Println(`Available commands:
  status              Show the current component report
  check               Run an update check now
  install [--yes]     Install the pending update (confirms when needed)
  ignore              Ignore the pending update for this session
  restart <target>    Restart gateway, tui, or all
  watchdog <action>   Start or stop the watchdog
  usage [reset]       Show or reset today's usage ledger
  events [n]          Show the n most recent events (default 20)
  model [set <id>]    Show or change the configured model
  exit                Leave the console`)
	return nil
}

func (c *Console) cmdStatus(args []string) error {
	snap := c.cfg.Scheduler.PollOnce(c.ctx)
	RenderReport(c.rl.Stdout(), snap)
	return nil
}

func (c *Console) cmdCheck(args []string) error {
	if c.cfg.Checker == nil {
		return fmt.Errorf("update checking is not configured")
	}
	fmt.Println("Checking for updates...")
	fact, err := c.cfg.Checker.Check(c.ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	c.cfg.Scheduler.SetFact(fact)

	if !fact.UpdateAvailable() {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s OpenClaw is up to date", green("✓"))
		if fact.LocalVersion != "" {
			fmt.Printf(" (v%s)", fact.LocalVersion)
		}
		fmt.Println()
		return nil
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
	for _, w := range gate.Warnings(fact) {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("  %s %s\n", red("!"), w)
	}
	for _, subject := range fact.SecurityCommits {
		fmt.Printf("  security-related commit: %s\n", subject)
	}
	return nil
}

func (c *Console) cmdInstall(args []string) error {
	if c.cfg.Installer == nil {
		return fmt.Errorf("installing is not configured")
	}
	fact := c.cfg.Scheduler.Fact()
	decision := gate.Decide(fact)
	if !decision.Allowed {
		return fmt.Errorf("%s (run 'check' first)", decision.Reason)
	}

	skipPrompt := len(args) > 0 && args[0] == "--yes"
	confirmed := false
	if decision.RequiresConfirmation {
		if skipPrompt {
			confirmed = true
		} else {
			ok, err := c.confirmInstall(decision)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Install cancelled.")
				return nil
			}
			confirmed = true
		}
	}

	fmt.Println("Installing update...")
	if err := c.cfg.Installer.Install(c.ctx, fact, confirmed); err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Update installed, gateway restarted.\n", green("✓"))
	return nil
}

func (c *Console) cmdIgnore(args []string) error {
	fact := c.cfg.Scheduler.Fact()
	if fact == nil || !fact.UpdateAvailable() {
		fmt.Println("No pending update to ignore.")
		return nil
	}
	c.cfg.Session.Ignore()
	c.cfg.Recorder.Recordf(c.ctx, events.EventTypeUpdateIgnored, events.SeverityInfo,
		fmt.Sprintf("update (%d commits) ignored for this session", fact.CommitsBehind))
	fmt.Println("Update ignored for this session.")
	return nil
}

func (c *Console) cmdRestart(args []string) error {
	if c.cfg.Controller == nil {
		return fmt.Errorf("control script is not configured")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: restart <gateway|tui|all>")
	}

	c.cfg.Recorder.Recordf(c.ctx, events.EventTypeRestartStarted, events.SeverityInfo,
		fmt.Sprintf("restarting %s", args[0]))

	var err error
	switch args[0] {
	case "gateway":
		err = c.cfg.Controller.RestartGateway(c.ctx)
	case "tui":
		err = c.cfg.Controller.RestartTUI(c.ctx)
	case "all":
		err = c.cfg.Controller.RestartAll(c.ctx)
	default:
		return fmt.Errorf("unknown restart target %q", args[0])
	}
	if err != nil {
		return err
	}

	c.cfg.Recorder.Recordf(c.ctx, events.EventTypeRestartCompleted, events.SeverityInfo,
		fmt.Sprintf("%s restarted", args[0]))
	fmt.Printf("%s restarted.\n", args[0])
	return nil
}

func (c *Console) cmdWatchdog(args []string) error {
	if c.cfg.Controller == nil {
		return fmt.Errorf("control script is not configured")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: watchdog <start|stop>")
	}

	var err error
	switch args[0] {
	case "start":
		err = c.cfg.Controller.StartWatchdog(c.ctx)
	case "stop":
		err = c.cfg.Controller.StopWatchdog(c.ctx)
	default:
		return fmt.Errorf("unknown watchdog action %q", args[0])
	}
	if err != nil {
		return err
	}

	c.cfg.Recorder.Recordf(c.ctx, events.EventTypeWatchdogToggled, events.SeverityInfo,
		fmt.Sprintf("watchdog %s requested", args[0]))
	fmt.Printf("Watchdog %s requested.\n", args[0])
	return nil
}

func (c *Console) cmdUsage(args []string) error {
	if c.cfg.Ledger == nil {
		return fmt.Errorf("usage ledger is not configured")
	}
	if len(args) > 0 && args[0] == "reset" {
		c.cfg.Ledger.Reset(c.ctx)
		fmt.Println("Usage ledger reset.")
		return nil
	}
	RenderUsage(c.rl.Stdout(), c.cfg.Ledger.Today())
	return nil
}

func (c *Console) cmdEvents(args []string) error {
	if c.cfg.Store == nil {
		return fmt.Errorf("event storage is not configured")
	}
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: events [n]")
		}
		limit = n
	}
	evs, err := c.cfg.Store.Recent(c.ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	RenderEvents(c.rl.Stdout(), evs)
	return nil
}

func (c *Console) cmdModel(args []string) error {
	if c.cfg.ModelConfigPath == "" {
		return fmt.Errorf("model configuration is not available")
	}

	if len(args) == 2 && args[0] == "set" {
		if err := config.SetModel(c.cfg.ModelConfigPath, args[1]); err != nil {
			return err
		}
		c.cfg.Recorder.Recordf(c.ctx, events.EventTypeModelChanged, events.SeverityInfo,
			fmt.Sprintf("model changed to %s", args[1]))
		fmt.Printf("Model set to %s.\n", config.ModelLabel(args[1]))
		return nil
	}
	if len(args) != 0 {
		return fmt.Errorf("usage: model [set <id>]")
	}

	current, res := config.CurrentModel(c.cfg.ModelConfigPath)
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
}

func (c *Console) cmdExit(args []string) error {
	fmt.Println("Goodbye!")
	return io.EOF
}
