// Package update checks the OpenClaw checkout against its remote branch and
// builds a fresh fact about what an update would bring. Facts are computed,
// never mutated in place; staleness is handled by checking again.
package update

import (
	"time"

	"github.com/openclaw/clawmon/internal/ai"
	"github.com/openclaw/clawmon/internal/scanner"
)

// Fact is the outcome of one update check.
type Fact struct {
	// CheckedAt is when the check completed.
	CheckedAt time.Time
	// CommitsBehind is how many remote commits the checkout is missing.
	CommitsBehind int
	// LocalVersion is the installed version string, best-effort.
	LocalVersion string
	// RemoteVersion is the remote tip's version string, best-effort.
	RemoteVersion string
	// SecurityCommits holds one-line subjects of pending commits whose
	// messages match the security keywords.
	SecurityCommits []string
	// Scan is the deterministic diff scan. Nil when nothing is pending.
	Scan *scanner.Result
	// Verdict is the AI classification of the pending diff. VerdictNone
	// means no analysis resolved, which is unresolved, not safe.
	Verdict ai.Verdict
	// VerdictDetails is the truncated raw model response, if any.
	VerdictDetails string
}

// UpdateAvailable reports whether there is anything to install.
func (f *Fact) UpdateAvailable() bool {
	return f.CommitsBehind > 0
}

// HasSecurityCommit reports whether any pending commit message matched the
// security keywords.
func (f *Fact) HasSecurityCommit() bool {
	return len(f.SecurityCommits) > 0
}

// Security reports whether the pending update deserves the security tier:
// a security-keyword commit or a dirty scan.
func (f *Fact) Security() bool {
	if f.HasSecurityCommit() {
		return true
	}
	return f.Scan != nil && !f.Scan.Clean()
}
