package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/clawmon/internal/ai"
	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/control"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/git"
	"github.com/openclaw/clawmon/internal/probe"
	"github.com/openclaw/clawmon/internal/scheduler"
	"github.com/openclaw/clawmon/internal/update"
	"github.com/openclaw/clawmon/internal/usage"
)

// buildProber creates the OS prober from the loaded config.
func buildProber() *probe.Prober {
	return probe.New(&probe.Config{
		Timeout:   cfg.ProbeTimeout,
		LogMaxAge: cfg.LogMaxAge,
	})
}

// buildLedger creates the usage ledger backed by usage-stats.json.
func buildLedger() *usage.Ledger {
	return usage.NewLedger(paths.UsageFile, cfg.HighCostThreshold, recorder)
}

// buildVerdictClient creates the AI verdict backend selected by
// ai_provider. "off" and unknown values disable analysis.
func buildVerdictClient(ledger *usage.Ledger) ai.VerdictClient {
	switch cfg.AIProvider {
	case "gateway":
		return ai.NewGatewayClient(ai.GatewayConfig{
			Port:         cfg.GatewayPort,
			Timeout:      cfg.AITimeout,
			MaxDiffBytes: cfg.MaxDiffBytes,
		})
	case "anthropic":
		model, _ := config.CurrentModel(paths.OpenClawConfigFile)
		client, err := ai.NewAnthropicClient(ai.AnthropicConfig{
			Model:        model,
			MaxDiffBytes: cfg.MaxDiffBytes,
			Usage:        ledger,
		})
		if err != nil {
			log.Warn().Err(err).Msg("anthropic verdict client unavailable, analysis disabled")
			return nil
		}
		return client
	default:
		return nil
	}
}

// buildDetector creates the update detector against the install checkout.
func buildDetector(ctx context.Context, verdict ai.VerdictClient) (*update.Detector, error) {
	gitClient, err := git.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("git unavailable: %w", err)
	}
	return update.NewDetector(update.Config{
		RepoPath:  paths.InstallDir,
		RemoteRef: cfg.RemoteBranch,
		Timeout:   cfg.GitTimeout,
	}, gitClient, verdict, recorder)
}

// buildController creates the watchdog-script controller.
func buildController() (*control.Controller, error) {
	return control.New(control.Config{
		ScriptPath: paths.WatchdogScript,
		Timeout:    30 * time.Second,
	})
}

// buildInstaller creates the install-gate installer.
func buildInstaller(ctx context.Context, ctl *control.Controller) (*gate.Installer, error) {
	gitClient, err := git.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("git unavailable: %w", err)
	}
	return gate.NewInstaller(gate.InstallerConfig{
		RepoPath:       paths.InstallDir,
		RemoteRef:      cfg.RemoteBranch,
		StepTimeout:    cfg.InstallTimeout,
		GatewayPattern: cfg.GatewayPattern,
	}, ctl, gitClient, recorder)
}

// buildScheduler wires the poll loop. checker and throttle may be nil for
// one-shot commands that never auto-check.
func buildScheduler(checker scheduler.UpdateChecker, throttle *update.Throttle, session *gate.Session) (*scheduler.Scheduler, error) {
	return scheduler.New(scheduler.Config{
		PollInterval:    cfg.PollInterval,
		GatewayPort:     cfg.GatewayPort,
		WatchdogPattern: cfg.WatchdogPattern,
		GatewayPattern:  cfg.GatewayPattern,
		TUIPattern:      cfg.TUIPattern,
		LogPath:         paths.DailyLogFile,
	}, buildProber(), checker, throttle, session, recorder)
}
