// Package control drives the OpenClaw watchdog script. The monitor never
// manages processes itself; every lifecycle change is delegated to the
// installation's own control script so both paths stay consistent.
package control

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds controller settings.
type Config struct {
	// ScriptPath is the watchdog control script inside the checkout.
	ScriptPath string
	// Timeout bounds one script invocation. Default: 30s.
	Timeout time.Duration
}

// Controller invokes the watchdog script.
type Controller struct {
	cfg Config
}

// New creates a Controller.
func New(cfg Config) (*Controller, error) {
	if cfg.ScriptPath == "" {
		return nil, fmt.Errorf("control script path is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Controller{cfg: cfg}, nil
}

// ScriptPresent reports whether the control script exists.
func (c *Controller) ScriptPresent() bool {
	info, err := os.Stat(c.cfg.ScriptPath)
	return err == nil && !info.IsDir()
}

// StartWatchdog starts the watchdog.
func (c *Controller) StartWatchdog(ctx context.Context) error {
	return c.invoke(ctx, "start")
}

// StopWatchdog stops the watchdog. Required before an install so the
// watchdog does not resurrect the gateway mid-pull.
func (c *Controller) StopWatchdog(ctx context.Context) error {
	return c.invoke(ctx, "stop")
}

// RestartGateway restarts the gateway process.
func (c *Controller) RestartGateway(ctx context.Context) error {
	return c.invoke(ctx, "restart-gateway")
}

// RestartTUI restarts the TUI client.
func (c *Controller) RestartTUI(ctx context.Context) error {
	return c.invoke(ctx, "restart-tui")
}

// RestartAll restarts everything the script manages.
func (c *Controller) RestartAll(ctx context.Context) error {
	return c.invoke(ctx, "restart-all")
}

// invoke runs the script with one subcommand under the configured timeout.
func (c *Controller) invoke(ctx context.Context, subcommand string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	log.Debug().Str("script", c.cfg.ScriptPath).Str("subcommand", subcommand).Msg("invoking control script")

	cmd := exec.CommandContext(runCtx, c.cfg.ScriptPath, subcommand)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("control script %s failed: %w: %s", subcommand, err, detail)
		}
		return fmt.Errorf("control script %s failed: %w", subcommand, err)
	}
	return nil
}

// KillGateway force-terminates gateway processes by command-line pattern.
// Used as a belt-and-braces step before an install when the script's stop
// may have left strays. Exit status "no match" is success.
func KillGateway(ctx context.Context, pattern string) error {
	return killByPattern(ctx, pattern)
}
