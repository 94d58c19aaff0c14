package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ev := New(EventTypeSecurityWarning, SeverityWarning, "curl piped to shell")

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventTypeSecurityWarning, ev.Type)
	assert.Equal(t, SeverityWarning, ev.Severity)
	assert.Equal(t, "curl piped to shell", ev.Message)
	assert.WithinDuration(t, time.Now(), ev.Timestamp, time.Second)
	assert.Empty(t, ev.Component)
}

func TestNewUniqueIDs(t *testing.T) {
	a := New(EventTypeUsageRecorded, SeverityInfo, "a")
	b := New(EventTypeUsageRecorded, SeverityInfo, "b")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewComponent(t *testing.T) {
	ev := NewComponent(EventTypeStatusChanged, "gateway", SeverityError, "gateway stopped")
	assert.Equal(t, "gateway", ev.Component)
	assert.Equal(t, SeverityError, ev.Severity)
}

func TestWithData(t *testing.T) {
	ev := New(EventTypeUpdateCheckCompleted, SeverityInfo, "update check completed").
		WithData(map[string]interface{}{"commits_behind": 3})
	assert.Equal(t, 3, ev.Data["commits_behind"])
}

// failingStore always errors on Append.
type failingStore struct{}

func (failingStore) Append(ctx context.Context, ev *MonitorEvent) error {
	return errors.New("disk full")
}
func (failingStore) Recent(ctx context.Context, limit int) ([]*MonitorEvent, error) {
	return nil, nil
}
func (failingStore) Query(ctx context.Context, filter Filter) ([]*MonitorEvent, error) {
	return nil, nil
}
func (failingStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) { return 0, nil }
func (failingStore) Close() error                                               { return nil }

// memStore collects appended events.
type memStore struct {
	failingStore
	appended []*MonitorEvent
}

func (m *memStore) Append(ctx context.Context, ev *MonitorEvent) error {
	m.appended = append(m.appended, ev)
	return nil
}

func TestRecorderAppends(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store)

	rec.Recordf(context.Background(), EventTypeInstallStarted, SeverityInfo, "install started")

	require.Len(t, store.appended, 1)
	assert.Equal(t, EventTypeInstallStarted, store.appended[0].Type)
}

// TestRecorderSwallowsStoreFailure checks recording never panics or blocks
// callers when the store is broken.
func TestRecorderSwallowsStoreFailure(t *testing.T) {
	rec := NewRecorder(failingStore{})
	rec.Recordf(context.Background(), EventTypeUsageRecorded, SeverityInfo, "usage")
}

func TestRecorderNilStoreIsLogOnly(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Recordf(context.Background(), EventTypeUsageRecorded, SeverityInfo, "usage")
}
