package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder appends events to a Store and mirrors them to the logger.
// Recording is best-effort: a storage failure is logged and swallowed, so
// callers never fail because the event log did.
type Recorder struct {
	store Store
}

// NewRecorder creates a Recorder. A nil store yields a log-only recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record persists ev and logs it at a level matching its severity.
func (r *Recorder) Record(ctx context.Context, ev *MonitorEvent) {
	logger := log.Info()
	switch ev.Severity {
	case SeverityWarning:
		logger = log.Warn()
	case SeverityError, SeverityCritical:
		logger = log.Error()
	}
	logger.Str("event", string(ev.Type)).Str("component", ev.Component).Msg(ev.Message)

	if r.store == nil {
		return
	}

	// Bound the write so a wedged database cannot stall a poll tick.
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.store.Append(writeCtx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Msg("failed to persist event")
	}
}

// Recordf is shorthand for recording a freshly constructed event.
func (r *Recorder) Recordf(ctx context.Context, eventType EventType, severity Severity, message string) {
	r.Record(ctx, New(eventType, severity, message))
}
