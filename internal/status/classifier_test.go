package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyDomainValidity checks that every probe combination yields a
// state inside the component's documented domain.
func TestClassifyDomainValidity(t *testing.T) {
	bools := []bool{false, true}
	for _, wd := range bools {
		for _, gw := range bools {
			for _, port := range bools {
				for _, tuiRun := range bools {
					for _, tuiConn := range bools {
						for _, fresh := range bools {
							snap := ProbeSnapshot{
								WatchdogRunning: wd,
								GatewayRunning:  gw,
								PortResponding:  port,
								TUIRunning:      tuiRun,
								TUIConnected:    tuiConn,
								LogsFresh:       fresh,
							}
							report := Classify(snap, UpdateStatus{})
							for _, c := range Components {
								cs, ok := report[c]
								require.True(t, ok, "component %s missing from report", c)
								assert.True(t, ValidState(c, cs.State),
									"component %s got state %s outside its domain", c, cs.State)
							}
						}
					}
				}
			}
		}
	}
}

// TestClassifyIdempotent checks the classifier is a pure function.
func TestClassifyIdempotent(t *testing.T) {
	snap := ProbeSnapshot{
		WatchdogRunning: true,
		GatewayRunning:  true,
		PortResponding:  false,
		TUIRunning:      true,
		TUIConnected:    false,
		LogsFresh:       true,
	}
	updates := UpdateStatus{Checked: true, Available: true, CommitsBehind: 3}

	first := Classify(snap, updates)
	second := Classify(snap, updates)
	assert.Equal(t, first, second)
}

func TestClassifySeverityMapping(t *testing.T) {
	tests := []struct {
		name      string
		snap      ProbeSnapshot
		component Component
		state     ComponentState
		severity  Severity
	}{
		{
			name:      "stopped watchdog is an error",
			snap:      ProbeSnapshot{},
			component: ComponentWatchdog,
			state:     StateStopped,
			severity:  SeverityError,
		},
		{
			name:      "dead port is an error",
			snap:      ProbeSnapshot{},
			component: ComponentPort,
			state:     StateNotResponding,
			severity:  SeverityError,
		},
		{
			name:      "running disconnected tui is a warning",
			snap:      ProbeSnapshot{TUIRunning: true},
			component: ComponentTUI,
			state:     StateDisconnected,
			severity:  SeverityWarning,
		},
		{
			name:      "absent tui is neutral",
			snap:      ProbeSnapshot{},
			component: ComponentTUI,
			state:     StateNotRunning,
			severity:  SeverityNeutral,
		},
		{
			name:      "stale logs are a warning",
			snap:      ProbeSnapshot{LogAge: 10 * time.Minute},
			component: ComponentLogs,
			state:     StateStale,
			severity:  SeverityWarning,
		},
		{
			name:      "fresh logs are ok",
			snap:      ProbeSnapshot{LogsFresh: true},
			component: ComponentLogs,
			state:     StateFresh,
			severity:  SeverityOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Classify(tt.snap, UpdateStatus{})
			cs := report[tt.component]
			assert.Equal(t, tt.state, cs.State)
			assert.Equal(t, tt.severity, cs.Severity)
		})
	}
}

func TestClassifyUpdates(t *testing.T) {
	tests := []struct {
		name     string
		updates  UpdateStatus
		state    ComponentState
		severity Severity
	}{
		{
			name:     "unchecked is unknown and neutral",
			updates:  UpdateStatus{},
			state:    StateUnknown,
			severity: SeverityNeutral,
		},
		{
			name:     "zero behind is current",
			updates:  UpdateStatus{Checked: true},
			state:    StateCurrent,
			severity: SeverityOK,
		},
		{
			name:     "behind without security is available",
			updates:  UpdateStatus{Checked: true, Available: true, CommitsBehind: 2},
			state:    StateAvailable,
			severity: SeverityWarning,
		},
		{
			name:     "security overrides available",
			updates:  UpdateStatus{Checked: true, Available: true, Security: true, CommitsBehind: 2},
			state:    StateSecurityUpdate,
			severity: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := classifyUpdates(tt.updates)
			assert.Equal(t, tt.state, cs.State)
			assert.Equal(t, tt.severity, cs.Severity)
		})
	}
}

// TestClassifyUpdatesVersionAnnotation checks the detail line only carries
// the version arrow when the two versions really differ.
func TestClassifyUpdatesVersionAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		updates UpdateStatus
		detail  string
	}{
		{
			name: "semver upgrade gets the arrow",
			updates: UpdateStatus{
				Checked: true, Available: true, CommitsBehind: 2,
				LocalVersion: "2.1.0", RemoteVersion: "2.2.0",
			},
			detail: "v2.1.0 → v2.2.0, 2 commits behind",
		},
		{
			name: "equal versions stay plain",
			updates: UpdateStatus{
				Checked: true, Available: true, CommitsBehind: 2,
				LocalVersion: "2.1.0", RemoteVersion: "2.1.0",
			},
			detail: "2 commits behind",
		},
		{
			name: "missing local version stays plain",
			updates: UpdateStatus{
				Checked: true, Available: true, CommitsBehind: 3,
				RemoteVersion: "2.2.0",
			},
			detail: "3 commits behind",
		},
		{
			name: "non-semver difference still annotated",
			updates: UpdateStatus{
				Checked: true, Available: true, CommitsBehind: 1,
				LocalVersion: "nightly-0812", RemoteVersion: "nightly-0826",
			},
			detail: "vnightly-0812 → vnightly-0826, 1 commits behind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := classifyUpdates(tt.updates)
			assert.Equal(t, tt.detail, cs.Detail)
		})
	}
}

// TestNoUpdateNeverAvailable checks commits_behind == 0 never classifies as
// Available or SecurityUpdate, whatever the other fields say.
func TestNoUpdateNeverAvailable(t *testing.T) {
	u := UpdateStatus{Checked: true, Available: false, Security: true, CommitsBehind: 0}
	cs := classifyUpdates(u)
	assert.NotEqual(t, StateAvailable, cs.State)
	assert.NotEqual(t, StateSecurityUpdate, cs.State)
}

func TestInitialReport(t *testing.T) {
	report := InitialReport()
	for _, c := range Components {
		assert.Equal(t, StateUnknown, report[c].State)
		assert.Equal(t, SeverityNeutral, report[c].Severity)
	}
}
