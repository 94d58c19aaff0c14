// Package scheduler drives the recurring poll loop. One worker goroutine
// owns all probing and classification; results leave it only as immutable
// Snapshot values over a channel, so no other goroutine ever touches live
// monitoring state.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/probe"
	"github.com/openclaw/clawmon/internal/status"
	"github.com/openclaw/clawmon/internal/update"
)

// UpdateChecker runs one update check. Implemented by update.Detector;
// tests substitute a fake.
type UpdateChecker interface {
	Check(ctx context.Context) (*update.Fact, error)
}

// Snapshot is one published poll result. Immutable once sent.
type Snapshot struct {
	// At is when the poll cycle finished.
	At time.Time
	// Report is the classified component report.
	Report status.Report
	// Fact is the latest known update fact, nil before the first check.
	Fact *update.Fact
}

// Config holds scheduler settings.
type Config struct {
	// PollInterval is the tick period. Default: 5s.
	PollInterval time.Duration
	// GatewayPort is probed for TCP reachability and TUI connections.
	GatewayPort int
	// WatchdogPattern, GatewayPattern, TUIPattern match process command
	// lines.
	WatchdogPattern string
	GatewayPattern  string
	TUIPattern      string
	// LogPath resolves the daily log file for a given time.
	LogPath func(t time.Time) string
}

// Scheduler runs the poll loop and the once-per-lifetime auto update check.
type Scheduler struct {
	cfg      Config
	prober   *probe.Prober
	checker  UpdateChecker
	throttle *update.Throttle
	session  *gate.Session
	rec      *events.Recorder

	snapshots chan Snapshot
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	fact       *update.Fact
	lastReport status.Report

	autoCheckStarted bool
}

// New creates a Scheduler. checker and throttle may be nil to disable the
// automatic update check.
func New(cfg Config, prober *probe.Prober, checker UpdateChecker, throttle *update.Throttle, session *gate.Session, rec *events.Recorder) (*Scheduler, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.LogPath == nil {
		return nil, fmt.Errorf("log path resolver is required")
	}
	if prober == nil {
		return nil, fmt.Errorf("prober is required")
	}
	if session == nil {
		session = &gate.Session{}
	}
	if rec == nil {
		rec = events.NewRecorder(nil)
	}
	return &Scheduler{
		cfg:        cfg,
		prober:     prober,
		checker:    checker,
		throttle:   throttle,
		session:    session,
		rec:        rec,
		snapshots:  make(chan Snapshot, 1),
		done:       make(chan struct{}),
		lastReport: status.InitialReport(),
	}, nil
}

// Snapshots is the channel poll results are published on. Single consumer.
func (s *Scheduler) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Run ticks until Close or ctx cancellation. It polls once immediately so
// the first snapshot does not wait a full interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.maybeAutoCheck(ctx)
	s.poll(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// Close stops the tick loop promptly. In-flight external calls are
// abandoned, not awaited.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// SetFact installs a fact produced outside the loop, e.g. by a manual
// check. A manual check also clears a session ignore so the user sees the
// result they asked for.
func (s *Scheduler) SetFact(fact *update.Fact) {
	s.session.Clear()
	s.mu.Lock()
	s.fact = fact
	s.mu.Unlock()
}

// Fact returns the latest known fact, nil before the first check.
func (s *Scheduler) Fact() *update.Fact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fact
}

// PollOnce runs a single probe cycle synchronously and returns the
// snapshot without publishing it. Used by one-shot commands and the
// interactive console.
func (s *Scheduler) PollOnce(ctx context.Context) Snapshot {
	now := time.Now()
	snap := s.collect(ctx, now)
	report := status.Classify(snap, s.updateStatus())
	return Snapshot{At: now, Report: report, Fact: s.Fact()}
}

// poll runs one probe cycle and publishes the snapshot.
func (s *Scheduler) poll(ctx context.Context) {
	now := time.Now()
	snap := s.collect(ctx, now)
	report := status.Classify(snap, s.updateStatus())

	s.recordTransitions(ctx, report)

	// Fire-and-forget publish: an unread previous snapshot is replaced,
	// never waited on.
	published := Snapshot{At: now, Report: report, Fact: s.Fact()}
	select {
	case s.snapshots <- published:
	default:
		select {
		case <-s.snapshots:
		default:
		}
		select {
		case s.snapshots <- published:
		default:
		}
	}
}

// collect gathers the raw probe results for one cycle.
func (s *Scheduler) collect(ctx context.Context, now time.Time) status.ProbeSnapshot {
	snap := status.ProbeSnapshot{
		WatchdogRunning: s.prober.ProcessRunning(ctx, s.cfg.WatchdogPattern),
		GatewayRunning:  s.prober.ProcessRunning(ctx, s.cfg.GatewayPattern),
		PortResponding:  s.prober.PortResponding(ctx, s.cfg.GatewayPort),
		TUIRunning:      s.prober.ProcessRunning(ctx, s.cfg.TUIPattern),
	}
	if snap.TUIRunning {
		snap.TUIConnected = s.prober.EstablishedConnection(ctx, s.cfg.GatewayPort)
	}

	logPath := s.cfg.LogPath(now)
	snap.LogsFresh = s.prober.LogFresh(logPath)
	if age, ok := s.prober.LogAge(logPath); ok {
		snap.LogAge = age
	}
	return snap
}

// updateStatus derives the classifier's update input from the latest fact
// and the session ignore flag.
func (s *Scheduler) updateStatus() status.UpdateStatus {
	fact := s.Fact()
	if fact == nil {
		return status.UpdateStatus{}
	}
	u := status.UpdateStatus{
		Checked:       true,
		Available:     fact.UpdateAvailable(),
		Security:      fact.Security(),
		CommitsBehind: fact.CommitsBehind,
		LocalVersion:  fact.LocalVersion,
		RemoteVersion: fact.RemoteVersion,
		LastCheck:     fact.CheckedAt,
	}
	// An ignored update reads as current for the rest of the session.
	if s.session.Ignored() {
		u.Available = false
		u.Security = false
	}
	return u
}

// recordTransitions emits a status_changed event for every component whose
// state differs from the previous report.
func (s *Scheduler) recordTransitions(ctx context.Context, report status.Report) {
	s.mu.Lock()
	prev := s.lastReport
	s.lastReport = report
	s.mu.Unlock()

	for _, c := range status.Components {
		before, after := prev[c], report[c]
		if before.State == after.State {
			continue
		}
		sev := events.SeverityInfo
		switch after.Severity {
		case status.SeverityWarning:
			sev = events.SeverityWarning
		case status.SeverityError:
			sev = events.SeverityError
		}
		msg := fmt.Sprintf("%s changed from %s to %s", c, before.State, after.State)
		s.rec.Record(ctx, events.NewComponent(events.EventTypeStatusChanged, string(c), sev, msg))
	}
}

// maybeAutoCheck spawns the background update check at most once per
// process lifetime, and only when the calendar-day throttle allows it.
func (s *Scheduler) maybeAutoCheck(ctx context.Context) {
	if s.autoCheckStarted || s.checker == nil || s.throttle == nil {
		return
	}
	s.autoCheckStarted = true

	if !s.throttle.ShouldAutoCheck() {
		log.Debug().Msg("auto update check throttled")
		return
	}

	go func() {
		fact, err := s.checker.Check(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("auto update check failed")
			return
		}
		s.throttle.MarkChecked()
		s.mu.Lock()
		s.fact = fact
		s.mu.Unlock()
	}()
}
