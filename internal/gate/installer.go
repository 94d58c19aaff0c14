package gate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/openclaw/clawmon/internal/control"
	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/update"
)

// ErrInstallInFlight is returned when an install is already running.
// Concurrent requests are rejected, never queued.
var ErrInstallInFlight = errors.New("an install is already in flight")

// ErrConfirmationRequired is returned when the gate demands an explicit
// confirmation the caller did not provide.
var ErrConfirmationRequired = errors.New("install requires explicit confirmation")

// Puller is the single git operation the installer needs.
type Puller interface {
	Pull(ctx context.Context, repoPath, remoteRef string) error
}

// InstallerConfig holds installer settings.
type InstallerConfig struct {
	// RepoPath is the OpenClaw checkout.
	RepoPath string
	// RemoteRef is the branch to pull, e.g. "origin/main".
	RemoteRef string
	// PackageManager is the install/build tool. Default: "pnpm".
	PackageManager string
	// StepTimeout bounds each install step. Default: 3m.
	StepTimeout time.Duration
	// GatewayPattern is the process pattern force-killed before the pull.
	GatewayPattern string
}

// Installer runs the install sequence: stop services, pull, reinstall
// dependencies, rebuild, restart the gateway. At most one install is in
// flight at a time.
type Installer struct {
	cfg  InstallerConfig
	ctl  *control.Controller
	git  Puller
	rec  *events.Recorder
	slot *semaphore.Weighted
}

// NewInstaller creates an Installer.
func NewInstaller(cfg InstallerConfig, ctl *control.Controller, git Puller, rec *events.Recorder) (*Installer, error) {
	if cfg.RepoPath == "" {
		return nil, fmt.Errorf("repo path is required")
	}
	if cfg.RemoteRef == "" {
		cfg.RemoteRef = "origin/main"
	}
	if cfg.PackageManager == "" {
		cfg.PackageManager = "pnpm"
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 3 * time.Minute
	}
	if rec == nil {
		rec = events.NewRecorder(nil)
	}
	return &Installer{
		cfg:  cfg,
		ctl:  ctl,
		git:  git,
		rec:  rec,
		slot: semaphore.NewWeighted(1),
	}, nil
}

// Install runs the full sequence for fact. confirmed says the user went
// through the warning confirmation; the gate rejects the call when it
// demands one that was not given. Any failing step marks the whole
// operation failed with no rollback of the pulled source.
func (i *Installer) Install(ctx context.Context, fact *update.Fact, confirmed bool) error {
	decision := Decide(fact)
	if !decision.Allowed {
		return fmt.Errorf("nothing to install: %s", decision.Reason)
	}
	if decision.RequiresConfirmation && !confirmed {
		i.rec.Recordf(ctx, events.EventTypeInstallBlocked, events.SeverityWarning,
			fmt.Sprintf("install blocked: %s", decision.Reason))
		return fmt.Errorf("%w: %s", ErrConfirmationRequired, decision.Reason)
	}

	if !i.slot.TryAcquire(1) {
		return ErrInstallInFlight
	}
	defer i.slot.Release(1)

	i.rec.Record(ctx, events.New(events.EventTypeInstallStarted, events.SeverityInfo,
		fmt.Sprintf("installing update (%d commits)", fact.CommitsBehind)).WithData(map[string]interface{}{
		"commits_behind": fact.CommitsBehind,
		"confirmed":      confirmed,
	}))

	if err := i.runSteps(ctx); err != nil {
		i.rec.Recordf(ctx, events.EventTypeInstallFailed, events.SeverityError,
			fmt.Sprintf("install failed: %v", err))
		return err
	}

	i.rec.Recordf(ctx, events.EventTypeInstallCompleted, events.SeverityInfo, "install completed")

	// Success triggers an automatic gateway restart.
	i.rec.Recordf(ctx, events.EventTypeRestartStarted, events.SeverityInfo, "restarting gateway after install")
	if err := i.ctl.RestartGateway(ctx); err != nil {
		return fmt.Errorf("install succeeded but gateway restart failed: %w", err)
	}
	i.rec.Recordf(ctx, events.EventTypeRestartCompleted, events.SeverityInfo, "gateway restarted")
	return nil
}

// runSteps executes the install sequence. The first failure aborts.
func (i *Installer) runSteps(ctx context.Context) error {
	// Stop the watchdog first so it cannot resurrect the gateway mid-pull,
	// then clear any stray gateway processes.
	if err := i.ctl.StopWatchdog(ctx); err != nil {
		return fmt.Errorf("stop services: %w", err)
	}
	if i.cfg.GatewayPattern != "" {
		if err := control.KillGateway(ctx, i.cfg.GatewayPattern); err != nil {
			return fmt.Errorf("kill gateway: %w", err)
		}
	}

	pullCtx, cancel := context.WithTimeout(ctx, i.cfg.StepTimeout)
	defer cancel()
	if err := i.git.Pull(pullCtx, i.cfg.RepoPath, i.cfg.RemoteRef); err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	if err := i.runTool(ctx, "install"); err != nil {
		return fmt.Errorf("dependency install: %w", err)
	}
	if err := i.runTool(ctx, "build"); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

// runTool runs the package manager with one subcommand in the checkout.
func (i *Installer) runTool(ctx context.Context, subcommand string) error {
	runCtx, cancel := context.WithTimeout(ctx, i.cfg.StepTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, i.cfg.PackageManager, subcommand)
	cmd.Dir = i.cfg.RepoPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 500 {
			detail = detail[len(detail)-500:]
		}
		if detail != "" {
			return fmt.Errorf("%s %s: %w: %s", i.cfg.PackageManager, subcommand, err, detail)
		}
		return fmt.Errorf("%s %s: %w", i.cfg.PackageManager, subcommand, err)
	}
	return nil
}
