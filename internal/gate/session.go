package gate

import "sync"

// Session holds the in-memory ignore flag. Ignoring a pending update sends
// the gate back to no-update for the rest of the process lifetime only; it
// is never persisted, so the next monitor start re-surfaces the update.
type Session struct {
	mu      sync.Mutex
	ignored bool
}

// Ignore marks the current pending update as ignored.
func (s *Session) Ignore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignored = true
}

// Ignored reports whether the session has an active ignore.
func (s *Session) Ignored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ignored
}

// Clear drops the ignore, used when a manual check finds a new update the
// user should see again.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignored = false
}
