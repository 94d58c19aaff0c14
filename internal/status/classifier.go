package status

import (
	"fmt"
	"time"

	"github.com/openclaw/clawmon/internal/update"
)

// ProbeSnapshot is the raw probe output for one poll cycle.
type ProbeSnapshot struct {
	// WatchdogRunning is the process probe for the watchdog.
	WatchdogRunning bool
	// GatewayRunning is the process probe for the gateway.
	GatewayRunning bool
	// PortResponding is the TCP connect probe on the monitoring port.
	PortResponding bool
	// TUIRunning is the process probe for the TUI client.
	TUIRunning bool
	// TUIConnected is the established-connection probe, meaningful only
	// when TUIRunning is true.
	TUIConnected bool
	// LogsFresh is the freshness probe on the daily log.
	LogsFresh bool
	// LogAge is the measured log age; zero when the file is missing.
	LogAge time.Duration
}

// UpdateStatus is the cached update-channel state fed into classification.
type UpdateStatus struct {
	// Checked is false until the first update check completes.
	Checked bool
	// Available means commits_behind > 0 on the last check.
	Available bool
	// Security means the available update carries a security commit or a
	// dirty scan.
	Security bool
	// CommitsBehind is the count from the last check.
	CommitsBehind int
	// LocalVersion is the cached human-readable version string.
	LocalVersion string
	// RemoteVersion is the remote version string from the last check.
	RemoteVersion string
	// LastCheck is when the last check completed.
	LastCheck time.Time
}

// Classify maps one probe snapshot plus the cached update status to a full
// report. Pure: no I/O, no hidden counters.
func Classify(snap ProbeSnapshot, updates UpdateStatus) Report {
	r := Report{}

	if snap.WatchdogRunning {
		r[ComponentWatchdog] = ComponentStatus{State: StateRunning, Severity: SeverityOK}
	} else {
		r[ComponentWatchdog] = ComponentStatus{State: StateStopped, Severity: SeverityError}
	}

	if snap.GatewayRunning {
		r[ComponentGateway] = ComponentStatus{State: StateRunning, Severity: SeverityOK}
	} else {
		r[ComponentGateway] = ComponentStatus{State: StateStopped, Severity: SeverityError}
	}

	if snap.PortResponding {
		r[ComponentPort] = ComponentStatus{State: StateResponding, Severity: SeverityOK}
	} else {
		r[ComponentPort] = ComponentStatus{State: StateNotResponding, Severity: SeverityError}
	}

	// Tie-break: a running-but-disconnected TUI is degraded, not down.
	// A TUI that simply is not open is neutral, not an error.
	switch {
	case !snap.TUIRunning:
		r[ComponentTUI] = ComponentStatus{State: StateNotRunning, Severity: SeverityNeutral}
	case snap.TUIConnected:
		r[ComponentTUI] = ComponentStatus{State: StateConnected, Severity: SeverityOK}
	default:
		r[ComponentTUI] = ComponentStatus{State: StateDisconnected, Severity: SeverityWarning}
	}

	// Freshness lapses are advisory.
	if snap.LogsFresh {
		r[ComponentLogs] = ComponentStatus{State: StateFresh, Severity: SeverityOK}
	} else {
		detail := ""
		if snap.LogAge > 0 {
			detail = fmt.Sprintf("%s old", snap.LogAge.Round(time.Second))
		}
		r[ComponentLogs] = ComponentStatus{State: StateStale, Severity: SeverityWarning, Detail: detail}
	}

	r[ComponentUpdates] = classifyUpdates(updates)
	return r
}

// classifyUpdates handles the update channel's three-way split plus the
// not-yet-checked neutral state.
func classifyUpdates(u UpdateStatus) ComponentStatus {
	if !u.Checked {
		return ComponentStatus{State: StateUnknown, Severity: SeverityNeutral}
	}

	versionPrefix := ""
	if u.LocalVersion != "" {
		versionPrefix = "v" + u.LocalVersion + " "
	}

	if !u.Available {
		detail := versionPrefix
		if !u.LastCheck.IsZero() {
			detail += "(" + u.LastCheck.Format("02.01. 15:04") + ")"
		}
		return ComponentStatus{State: StateCurrent, Severity: SeverityOK, Detail: detail}
	}

	// The version arrow needs both sides known and actually different;
	// CompareVersions folds semver-equal spellings like 1.2.0 and v1.2.0.
	delta := fmt.Sprintf("%d commits behind", u.CommitsBehind)
	if update.CompareVersions(u.LocalVersion, u.RemoteVersion) != update.DeltaUnknown {
		delta = fmt.Sprintf("%s→ v%s, %s", versionPrefix, u.RemoteVersion, delta)
	}

	// Security overrides Available.
	if u.Security {
		return ComponentStatus{State: StateSecurityUpdate, Severity: SeverityError, Detail: delta}
	}
	return ComponentStatus{State: StateAvailable, Severity: SeverityWarning, Detail: delta}
}

// InitialReport returns the pre-measurement report: every component
// Unknown where its domain allows it, neutral severity.
func InitialReport() Report {
	r := Report{}
	for _, c := range Components {
		r[c] = ComponentStatus{State: StateUnknown, Severity: SeverityNeutral}
	}
	return r
}
