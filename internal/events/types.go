// Package events defines the monitor's append-only event log. Every
// user-visible occurrence (status flips, update checks, security warnings,
// install outcomes) becomes a timestamped MonitorEvent persisted through a
// Store.
package events

import (
	"context"
	"time"
)

// EventType classifies a monitor event.
type EventType string

const (
	// EventTypeStatusChanged indicates a component changed state.
	EventTypeStatusChanged EventType = "status_changed"
	// EventTypeProbeTimeout indicates an external probe exceeded its bound.
	EventTypeProbeTimeout EventType = "probe_timeout"

	// Update flow events
	// EventTypeUpdateCheckStarted indicates an update check began.
	EventTypeUpdateCheckStarted EventType = "update_check_started"
	// EventTypeUpdateCheckCompleted indicates an update check finished.
	EventTypeUpdateCheckCompleted EventType = "update_check_completed"
	// EventTypeUpdateIgnored indicates the user dismissed the current update.
	EventTypeUpdateIgnored EventType = "update_ignored"

	// Security events
	// EventTypeSecurityWarning indicates a dangerous pattern fired in the
	// incoming diff.
	EventTypeSecurityWarning EventType = "security_warning"
	// EventTypeSecurityInfo indicates an advisory (non-blocking) finding.
	EventTypeSecurityInfo EventType = "security_info"
	// EventTypeAIVerdict indicates the AI analysis returned a verdict.
	EventTypeAIVerdict EventType = "ai_verdict"
	// EventTypeAIUnavailable indicates the verdict service failed or was
	// unreachable; the analysis is unresolved, not safe.
	EventTypeAIUnavailable EventType = "ai_unavailable"

	// Install flow events
	// EventTypeInstallStarted indicates an install began.
	EventTypeInstallStarted EventType = "install_started"
	// EventTypeInstallCompleted indicates an install finished successfully.
	EventTypeInstallCompleted EventType = "install_completed"
	// EventTypeInstallFailed indicates an install step exited non-zero.
	EventTypeInstallFailed EventType = "install_failed"
	// EventTypeInstallBlocked indicates the gate refused an unconfirmed
	// install on a dirty scan.
	EventTypeInstallBlocked EventType = "install_blocked"

	// Control events
	// EventTypeRestartStarted indicates a restart action began.
	EventTypeRestartStarted EventType = "restart_started"
	// EventTypeRestartCompleted indicates a restart action finished.
	EventTypeRestartCompleted EventType = "restart_completed"
	// EventTypeWatchdogToggled indicates the watchdog was started or stopped.
	EventTypeWatchdogToggled EventType = "watchdog_toggled"

	// Usage events
	// EventTypeUsageRecorded indicates tokens/cost were added to the ledger.
	EventTypeUsageRecorded EventType = "usage_recorded"
	// EventTypeUsageReset indicates the usage ledger was zeroed.
	EventTypeUsageReset EventType = "usage_reset"
	// EventTypeHighCost indicates the daily cost crossed the advisory
	// threshold.
	EventTypeHighCost EventType = "high_cost"

	// Housekeeping events
	// EventTypeConfigCorrupt indicates a state file failed to parse and
	// defaults were used.
	EventTypeConfigCorrupt EventType = "config_corrupt"
	// EventTypeModelChanged indicates the configured AI model was switched.
	EventTypeModelChanged EventType = "model_changed"
	// EventTypeEventCleanup indicates old events were pruned.
	EventTypeEventCleanup EventType = "event_cleanup"
)

// Severity is the severity level of an event.
type Severity string

const (
	// SeverityInfo indicates informational events.
	SeverityInfo Severity = "info"
	// SeverityWarning indicates degraded-but-alive conditions.
	SeverityWarning Severity = "warning"
	// SeverityError indicates hard failures.
	SeverityError Severity = "error"
	// SeverityCritical indicates conditions requiring immediate attention.
	SeverityCritical Severity = "critical"
)

// MonitorEvent is one record in the append-only event log.
type MonitorEvent struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`
	// Type is the type of event.
	Type EventType `json:"type"`
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// Component names the monitored subsystem the event concerns, if any.
	Component string `json:"component,omitempty"`
	// Severity is the severity level of this event.
	Severity Severity `json:"severity"`
	// Message is a human-readable description of the event.
	Message string `json:"message"`
	// Data contains structured, type-specific data (JSON-serializable).
	Data map[string]interface{} `json:"data,omitempty"`
}

// Filter selects events for queries. Zero fields match everything.
type Filter struct {
	// Type restricts to a single event type.
	Type EventType
	// Component restricts to a single component.
	Component string
	// Severity restricts to a single severity.
	Severity Severity
	// After restricts to events strictly after this time.
	After time.Time
	// Limit caps the number of returned events (0 = no cap).
	Limit int
}

// Store is the persistence interface for the event log.
type Store interface {
	// Append stores a new event.
	Append(ctx context.Context, ev *MonitorEvent) error
	// Recent returns the most recent events, newest first.
	Recent(ctx context.Context, limit int) ([]*MonitorEvent, error)
	// Query returns events matching the filter, newest first.
	Query(ctx context.Context, filter Filter) ([]*MonitorEvent, error)
	// Prune deletes events older than the cutoff, returning the count.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	// Close releases the store.
	Close() error
}
