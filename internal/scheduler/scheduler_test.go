package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/gate"
	"github.com/openclaw/clawmon/internal/probe"
	"github.com/openclaw/clawmon/internal/status"
	"github.com/openclaw/clawmon/internal/update"
)

// fakeChecker counts Check invocations and returns a fixed fact.
type fakeChecker struct {
	calls int32
	fact  *update.Fact
	err   error
}

func (f *fakeChecker) Check(ctx context.Context) (*update.Fact, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fact, f.err
}

func testScheduler(t *testing.T, checker UpdateChecker, throttle *update.Throttle) *Scheduler {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		PollInterval:    50 * time.Millisecond,
		GatewayPort:     1, // nothing listens there
		WatchdogPattern: "no-such-watchdog-zzqq",
		GatewayPattern:  "no-such-gateway-zzqq",
		TUIPattern:      "no-such-tui-zzqq",
		LogPath: func(ts time.Time) string {
			return filepath.Join(dir, fmt.Sprintf("openclaw-%s.log", ts.Format("2006-01-02")))
		},
	}
	prober := probe.New(&probe.Config{Timeout: time.Second})
	s, err := New(cfg, prober, checker, throttle, &gate.Session{}, events.NewRecorder(nil))
	require.NoError(t, err)
	return s
}

func TestNewRequiresLogPath(t *testing.T) {
	prober := probe.New(nil)
	_, err := New(Config{}, prober, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestPollOnceReportsAllComponents(t *testing.T) {
	s := testScheduler(t, nil, nil)
	snap := s.PollOnce(context.Background())

	assert.WithinDuration(t, time.Now(), snap.At, 5*time.Second)
	assert.Nil(t, snap.Fact)
	for _, c := range status.Components {
		st, ok := snap.Report[c]
		require.True(t, ok, "missing component %s", c)
		assert.True(t, status.ValidState(c, st.State), "invalid state %s for %s", st.State, c)
	}
	// Nothing is running on this box under those names.
	assert.Equal(t, status.StateStopped, snap.Report[status.ComponentWatchdog].State)
	assert.Equal(t, status.StateNotResponding, snap.Report[status.ComponentPort].State)
	assert.Equal(t, status.StateUnknown, snap.Report[status.ComponentUpdates].State)
}

func TestSetFactFlowsIntoReport(t *testing.T) {
	s := testScheduler(t, nil, nil)
	s.SetFact(&update.Fact{CheckedAt: time.Now(), CommitsBehind: 3})

	snap := s.PollOnce(context.Background())
	assert.Equal(t, status.StateAvailable, snap.Report[status.ComponentUpdates].State)
	require.NotNil(t, snap.Fact)
	assert.Equal(t, 3, snap.Fact.CommitsBehind)
}

// TestIgnoreSuppressesUpdate checks a session ignore makes a pending update
// read as current, and a fresh fact clears the ignore.
func TestIgnoreSuppressesUpdate(t *testing.T) {
	s := testScheduler(t, nil, nil)
	s.SetFact(&update.Fact{CheckedAt: time.Now(), CommitsBehind: 3})
	s.session.Ignore()

	snap := s.PollOnce(context.Background())
	assert.Equal(t, status.StateCurrent, snap.Report[status.ComponentUpdates].State)

	// A manual re-check clears the ignore.
	s.SetFact(&update.Fact{CheckedAt: time.Now(), CommitsBehind: 3})
	snap = s.PollOnce(context.Background())
	assert.Equal(t, status.StateAvailable, snap.Report[status.ComponentUpdates].State)
}

// TestPublishDropsOldest checks an unread snapshot is replaced rather than
// blocking the poll loop.
func TestPublishDropsOldest(t *testing.T) {
	s := testScheduler(t, nil, nil)
	ctx := context.Background()

	s.poll(ctx)
	s.SetFact(&update.Fact{CheckedAt: time.Now(), CommitsBehind: 7})
	s.poll(ctx)

	select {
	case snap := <-s.Snapshots():
		require.NotNil(t, snap.Fact)
		assert.Equal(t, 7, snap.Fact.CommitsBehind)
	default:
		t.Fatal("expected a published snapshot")
	}
	// Only the newest survives.
	select {
	case <-s.Snapshots():
		t.Fatal("expected the older snapshot to have been dropped")
	default:
	}
}

func TestRunStopsOnClose(t *testing.T) {
	s := testScheduler(t, nil, nil)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-s.Snapshots():
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot published")
	}

	s.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestAutoCheckThrottled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-update-check.json")
	throttle := update.NewThrottle(path)
	throttle.MarkChecked()

	checker := &fakeChecker{fact: &update.Fact{CheckedAt: time.Now()}}
	s := testScheduler(t, checker, throttle)

	s.maybeAutoCheck(context.Background())
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&checker.calls))
}

func TestAutoCheckRunsWhenDue(t *testing.T) {
	throttle := update.NewThrottle(filepath.Join(t.TempDir(), "last-update-check.json"))
	checker := &fakeChecker{fact: &update.Fact{CheckedAt: time.Now(), CommitsBehind: 1}}
	s := testScheduler(t, checker, throttle)

	s.maybeAutoCheck(context.Background())
	require.Eventually(t, func() bool {
		return s.Fact() != nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))

	// A second call in the same process never re-checks.
	s.maybeAutoCheck(context.Background())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))
}

// TestAutoCheckFailureLeavesThrottleOpen checks a failed auto check does not
// mark the throttle, so the next launch retries.
func TestAutoCheckFailureLeavesThrottleOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-update-check.json")
	throttle := update.NewThrottle(path)
	checker := &fakeChecker{err: errors.New("fetch failed")}
	s := testScheduler(t, checker, throttle)

	s.maybeAutoCheck(context.Background())
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&checker.calls) == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.True(t, throttle.ShouldAutoCheck())
	assert.Nil(t, s.Fact())
}
