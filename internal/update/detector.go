package update

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/clawmon/internal/ai"
	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/git"
	"github.com/openclaw/clawmon/internal/scanner"
)

// GitClient is the slice of git operations the detector needs. The real
// implementation is internal/git; tests substitute a fake.
type GitClient interface {
	Fetch(ctx context.Context, repoPath, remote string) error
	CommitsBehind(ctx context.Context, repoPath, remoteRef string) (int, error)
	Describe(ctx context.Context, repoPath, rev string) (string, error)
	LogGrep(ctx context.Context, repoPath, remoteRef string, patterns []string) ([]string, error)
	DiffNameOnly(ctx context.Context, repoPath, remoteRef, filter string) ([]string, error)
	DiffNumstat(ctx context.Context, repoPath, remoteRef string) ([]string, error)
	Diff(ctx context.Context, repoPath, remoteRef string, unified int) (string, error)
}

// securityKeywords are grepped case-insensitively against pending commit
// messages.
var securityKeywords = []string{"security", "CVE", "vulnerability", "fix"}

// Config holds detector settings.
type Config struct {
	// RepoPath is the OpenClaw checkout.
	RepoPath string
	// RemoteRef is the remote branch to compare against, e.g. "origin/main".
	RemoteRef string
	// Timeout bounds each git operation. Default: 15s.
	Timeout time.Duration
}

// DefaultConfig returns the default detector settings.
func DefaultConfig() Config {
	return Config{
		RemoteRef: "origin/main",
		Timeout:   15 * time.Second,
	}
}

// Detector runs update checks.
type Detector struct {
	cfg     Config
	git     GitClient
	verdict ai.VerdictClient
	rec     *events.Recorder
}

// NewDetector creates a Detector. verdict may be nil, in which case dirty
// scans stay at VerdictNone.
func NewDetector(cfg Config, gitClient GitClient, verdict ai.VerdictClient, rec *events.Recorder) (*Detector, error) {
	if cfg.RepoPath == "" {
		return nil, fmt.Errorf("repo path is required")
	}
	if cfg.RemoteRef == "" {
		cfg.RemoteRef = "origin/main"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if rec == nil {
		rec = events.NewRecorder(nil)
	}
	return &Detector{cfg: cfg, git: gitClient, verdict: verdict, rec: rec}, nil
}

// Check fetches the remote and builds a fresh Fact. The fetch and the
// behind-count are load-bearing and fail the check; everything after them
// is best-effort and degrades to empty fields.
func (d *Detector) Check(ctx context.Context) (*Fact, error) {
	d.rec.Recordf(ctx, events.EventTypeUpdateCheckStarted, events.SeverityInfo, "update check started")

	remote, _ := git.SplitRemoteRef(d.cfg.RemoteRef)
	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		return d.git.Fetch(stepCtx, d.cfg.RepoPath, remote)
	}); err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	var behind int
	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		n, err := d.git.CommitsBehind(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef)
		behind = n
		return err
	}); err != nil {
		return nil, fmt.Errorf("behind count failed: %w", err)
	}

	fact := &Fact{
		CheckedAt:     time.Now(),
		CommitsBehind: behind,
		LocalVersion:  ReadPackageVersion(d.cfg.RepoPath),
	}

	if behind == 0 {
		d.rec.Recordf(ctx, events.EventTypeUpdateCheckCompleted, events.SeverityInfo, "up to date")
		return fact, nil
	}

	d.enrich(ctx, fact)
	d.recordFindings(ctx, fact)
	return fact, nil
}

// enrich fills the best-effort fields of a behind fact. Each step that
// fails is logged and leaves its field empty.
func (d *Detector) enrich(ctx context.Context, fact *Fact) {
	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		v, err := d.git.Describe(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef)
		fact.RemoteVersion = cleanVersion(v)
		return err
	}); err != nil {
		log.Debug().Err(err).Msg("remote version lookup failed")
	}

	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		subjects, err := d.git.LogGrep(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef, securityKeywords)
		fact.SecurityCommits = subjects
		return err
	}); err != nil {
		log.Debug().Err(err).Msg("security commit grep failed")
	}

	var diff string
	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		out, err := d.git.Diff(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef, 0)
		diff = out
		return err
	}); err != nil {
		log.Warn().Err(err).Msg("diff failed, scan skipped")
		return
	}

	fact.Scan = scanner.ScanDiff(diff)

	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		files, err := d.git.DiffNameOnly(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef, "")
		fact.Scan.FilesChecked = len(files)
		return err
	}); err != nil {
		log.Debug().Err(err).Msg("changed-file listing failed")
	}

	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		added, err := d.git.DiffNameOnly(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef, "A")
		fact.Scan.RecordNewScripts(added)
		return err
	}); err != nil {
		log.Debug().Err(err).Msg("new-file listing failed")
	}

	if err := d.runStep(ctx, func(stepCtx context.Context) error {
		numstat, err := d.git.DiffNumstat(stepCtx, d.cfg.RepoPath, d.cfg.RemoteRef)
		fact.Scan.RecordBinaries(numstat)
		return err
	}); err != nil {
		log.Debug().Err(err).Msg("numstat failed")
	}

	// AI analysis only when the deterministic scan is dirty. Clean scans
	// never spend tokens and keep VerdictNone.
	if !fact.Scan.Clean() && d.verdict != nil {
		analysis, err := d.verdict.AnalyzeDiff(ctx, diff)
		if err != nil {
			d.rec.Recordf(ctx, events.EventTypeAIUnavailable, events.SeverityWarning,
				fmt.Sprintf("AI analysis unresolved: %v", err))
		} else {
			fact.Verdict = analysis.Verdict
			fact.VerdictDetails = analysis.Details
			sev := events.SeverityInfo
			if analysis.Verdict != ai.VerdictSafe {
				sev = events.SeverityWarning
			}
			d.rec.Record(ctx, events.New(events.EventTypeAIVerdict, sev,
				fmt.Sprintf("AI verdict: %s", analysis.Verdict)).WithData(map[string]interface{}{
				"verdict": string(analysis.Verdict),
				"details": analysis.Details,
			}))
		}
	}
}

// recordFindings emits the events for a behind fact.
func (d *Detector) recordFindings(ctx context.Context, fact *Fact) {
	if fact.Scan != nil {
		for _, f := range fact.Scan.Dangerous {
			d.rec.Record(ctx, events.New(events.EventTypeSecurityWarning, events.SeverityError,
				fmt.Sprintf("dangerous pattern %s: %s", f.DetectorID, f.Description)).WithData(map[string]interface{}{
				"detector": f.DetectorID,
				"excerpt":  f.Excerpt,
			}))
		}
		for _, m := range fact.Scan.Info {
			d.rec.Recordf(ctx, events.EventTypeSecurityInfo, events.SeverityInfo,
				fmt.Sprintf("%d added lines reference %s (normal for a CLI)", m.Count, m.Marker))
		}
		for _, s := range fact.Scan.NewScripts {
			d.rec.Recordf(ctx, events.EventTypeSecurityInfo, events.SeverityInfo,
				fmt.Sprintf("update adds script %s", s))
		}
		for _, b := range fact.Scan.BinaryFiles {
			d.rec.Recordf(ctx, events.EventTypeSecurityInfo, events.SeverityInfo,
				fmt.Sprintf("update changes binary file %s", b))
		}
	}

	sev := events.SeverityInfo
	msg := fmt.Sprintf("update available: %d commits behind", fact.CommitsBehind)
	if fact.Security() {
		sev = events.SeverityWarning
		msg += " (security)"
	}
	data := map[string]interface{}{
		"commits_behind": fact.CommitsBehind,
		"local_version":  fact.LocalVersion,
		"remote_version": fact.RemoteVersion,
		"security":       fact.Security(),
	}
	if fact.Scan != nil {
		data["files_checked"] = fact.Scan.FilesChecked
	}
	d.rec.Record(ctx, events.New(events.EventTypeUpdateCheckCompleted, sev, msg).WithData(data))
}

// runStep bounds one git operation with the configured timeout.
func (d *Detector) runStep(ctx context.Context, step func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	return step(stepCtx)
}
