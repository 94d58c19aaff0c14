package events

import (
	"time"

	"github.com/google/uuid"
)

// New creates a MonitorEvent with a fresh ID and timestamp.
func New(eventType EventType, severity Severity, message string) *MonitorEvent {
	return &MonitorEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Severity:  severity,
		Message:   message,
	}
}

// NewComponent creates an event attributed to a monitored component.
func NewComponent(eventType EventType, component string, severity Severity, message string) *MonitorEvent {
	ev := New(eventType, severity, message)
	ev.Component = component
	return ev
}

// WithData attaches structured data to the event and returns it.
func (e *MonitorEvent) WithData(data map[string]interface{}) *MonitorEvent {
	e.Data = data
	return e
}
