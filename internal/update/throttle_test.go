package update

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/clawmon/internal/config"
)

func TestCalendarDaysBetween(t *testing.T) {
	day := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
	}

	tests := []struct {
		name     string
		a, b     time.Time
		expected int
	}{
		{"same day", day(2026, 8, 28, 9), day(2026, 8, 28, 23), 0},
		{"next day early", day(2026, 8, 28, 23), day(2026, 8, 29, 1), 1},
		{"two boundaries", day(2026, 8, 26, 23), day(2026, 8, 28, 0), 2},
		{"month boundary", day(2026, 8, 31, 12), day(2026, 9, 2, 12), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calendarDaysBetween(tt.a, tt.b))
		})
	}
}

func TestShouldAutoCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-update-check.json")
	th := NewThrottle(path)

	// No state file yet: always permitted.
	assert.True(t, th.ShouldAutoCheck())

	// Checked just now: throttled.
	th.MarkChecked()
	assert.False(t, th.ShouldAutoCheck())

	// Checked one day ago: still throttled (needs two boundaries).
	require.NoError(t, config.SaveLastCheck(path, time.Now().Add(-24*time.Hour)))
	assert.False(t, th.ShouldAutoCheck())

	// Checked three days ago: due.
	require.NoError(t, config.SaveLastCheck(path, time.Now().Add(-72*time.Hour)))
	assert.True(t, th.ShouldAutoCheck())
}
