// Package status maps raw probe results to per-component states. The
// classifier is a pure function: same snapshot in, same report out.
package status

import "fmt"

// Component is one monitored subsystem.
type Component string

const (
	// ComponentWatchdog is the background supervision daemon.
	ComponentWatchdog Component = "watchdog"
	// ComponentGateway is the gateway process.
	ComponentGateway Component = "gateway"
	// ComponentPort is the gateway's TCP listening port.
	ComponentPort Component = "port"
	// ComponentTUI is the terminal UI client.
	ComponentTUI Component = "tui"
	// ComponentLogs is the daily gateway log file.
	ComponentLogs Component = "logs"
	// ComponentUpdates is the software update channel.
	ComponentUpdates Component = "updates"
)

// Components lists all monitored subsystems in display order.
var Components = []Component{
	ComponentWatchdog,
	ComponentGateway,
	ComponentPort,
	ComponentTUI,
	ComponentLogs,
	ComponentUpdates,
}

// ComponentState is the classified state of one component.
type ComponentState string

const (
	// StateUnknown is the initial state before the first successful probe.
	StateUnknown ComponentState = "unknown"
	// StateRunning means the process was found in the process table.
	StateRunning ComponentState = "running"
	// StateStopped means the process was not found.
	StateStopped ComponentState = "stopped"
	// StateResponding means the port accepted a TCP connection.
	StateResponding ComponentState = "responding"
	// StateNotResponding means the port refused or timed out.
	StateNotResponding ComponentState = "not_responding"
	// StateConnected means the TUI is running with an established
	// connection to the gateway.
	StateConnected ComponentState = "connected"
	// StateDisconnected means the TUI is running without a gateway
	// connection. Degraded, not down.
	StateDisconnected ComponentState = "disconnected"
	// StateNotRunning means the TUI process was not found.
	StateNotRunning ComponentState = "not_running"
	// StateFresh means the log file was modified within the threshold.
	StateFresh ComponentState = "fresh"
	// StateStale means the log file is older than the threshold. Advisory.
	StateStale ComponentState = "stale"
	// StateCurrent means the checkout matches the remote.
	StateCurrent ComponentState = "current"
	// StateAvailable means an update is available with no security flag.
	StateAvailable ComponentState = "available"
	// StateSecurityUpdate means an available update carries a security
	// commit or a dirty scan. Overrides Available.
	StateSecurityUpdate ComponentState = "security_update"
)

// validStates is the per-component state domain. The classifier never
// produces a state outside its component's set.
var validStates = map[Component][]ComponentState{
	ComponentWatchdog: {StateUnknown, StateRunning, StateStopped},
	ComponentGateway:  {StateUnknown, StateRunning, StateStopped},
	ComponentPort:     {StateUnknown, StateResponding, StateNotResponding},
	ComponentTUI:      {StateUnknown, StateNotRunning, StateConnected, StateDisconnected},
	ComponentLogs:     {StateUnknown, StateFresh, StateStale},
	ComponentUpdates:  {StateUnknown, StateCurrent, StateAvailable, StateSecurityUpdate},
}

// ValidState reports whether the state belongs to the component's domain.
func ValidState(c Component, s ComponentState) bool {
	for _, v := range validStates[c] {
		if v == s {
			return true
		}
	}
	return false
}

// Severity is the three-tier severity of a component status, plus the
// neutral pre-measurement tier. Collapsing warning into error or ok would
// break the monitoring semantics: a stale log must not look like a dead
// process.
type Severity int

const (
	// SeverityNeutral is the grey pre-measurement state.
	SeverityNeutral Severity = iota
	// SeverityOK is green: the component is healthy.
	SeverityOK
	// SeverityWarning is amber: degraded but alive.
	SeverityWarning
	// SeverityError is red: hard-down.
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNeutral:
		return "neutral"
	case SeverityOK:
		return "ok"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ComponentStatus is one classified component with display detail.
type ComponentStatus struct {
	// State is the classified component state.
	State ComponentState
	// Severity is the three-tier severity of the state.
	Severity Severity
	// Detail is a short annotation (version delta, commit count, age).
	Detail string
}

// Report maps every component to its classified status for one poll cycle.
type Report map[Component]ComponentStatus
