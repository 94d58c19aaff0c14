package update

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/clawmon/internal/config"
)

// Throttle gates automatic update checks to once every two calendar days.
// Manual checks bypass it entirely.
type Throttle struct {
	path string
	now  func() time.Time
}

// NewThrottle creates a Throttle persisting to path.
func NewThrottle(path string) *Throttle {
	return &Throttle{path: path, now: time.Now}
}

// minCalendarDays is the calendar-day gap required between automatic
// checks. Day boundaries count, not elapsed hours: a check late on Monday
// permits another early on Wednesday.
const minCalendarDays = 2

// ShouldAutoCheck reports whether an automatic check is due. A missing or
// corrupt timestamp file always permits one.
func (t *Throttle) ShouldAutoCheck() bool {
	last, res := config.LoadLastCheck(t.path)
	if res.Source == config.SourceCorrupt {
		log.Warn().Err(res.Err).Msg("last-check state corrupt, permitting auto check")
	}
	if last.IsZero() {
		return true
	}
	return calendarDaysBetween(last, t.now()) >= minCalendarDays
}

// MarkChecked persists now as the last check time. Failure is logged and
// swallowed; the worst case is an extra check later.
func (t *Throttle) MarkChecked() {
	if err := config.SaveLastCheck(t.path, t.now()); err != nil {
		log.Warn().Err(err).Msg("failed to persist last-check state")
	}
}

// calendarDaysBetween counts whole day boundaries crossed between a and b
// in local time.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.Local)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.Local)
	return int(end.Sub(start).Hours() / 24)
}
