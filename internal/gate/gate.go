// Package gate decides whether an update install may proceed and runs the
// install sequence when it may. The decision is computed fresh from the
// current fact every time; nothing about a past decision is cached.
package gate

import (
	"fmt"
	"strings"

	"github.com/openclaw/clawmon/internal/ai"
	"github.com/openclaw/clawmon/internal/update"
)

// State is the install gate's position for a given fact.
type State string

const (
	// StateNoUpdate means there is nothing to install.
	StateNoUpdate State = "no_update"
	// StateScanClean means an update is pending and the scan found nothing.
	StateScanClean State = "scan_clean"
	// StateScanDirty means the scan fired and no AI verdict resolved.
	// Unresolved is not safe; installing needs explicit confirmation.
	StateScanDirty State = "scan_dirty"
	// StateAISafe means the AI cleared a dirty scan.
	StateAISafe State = "ai_safe"
	// StateAIReview means the AI recommends a human look first.
	StateAIReview State = "ai_review"
	// StateAIDangerous means the AI flagged the changes.
	StateAIDangerous State = "ai_dangerous"
)

// Classify maps a fact to a gate state.
func Classify(fact *update.Fact) State {
	if fact == nil || !fact.UpdateAvailable() {
		return StateNoUpdate
	}
	if fact.Scan == nil || fact.Scan.Clean() {
		return StateScanClean
	}
	switch fact.Verdict {
	case ai.VerdictSafe:
		return StateAISafe
	case ai.VerdictReview:
		return StateAIReview
	case ai.VerdictDangerous:
		return StateAIDangerous
	default:
		return StateScanDirty
	}
}

// Decision is what the gate allows for an install request.
type Decision struct {
	// Allowed is false only when there is nothing to install.
	Allowed bool
	// RequiresConfirmation means the user must explicitly confirm after
	// seeing every warning verbatim.
	RequiresConfirmation bool
	// Deterrent means the confirmation should default to the discouraging
	// affordance. Never a hard block; the user can override.
	Deterrent bool
	// Reason is a short human-readable explanation.
	Reason string
	// Warnings is the verbatim warning list to display before confirming.
	Warnings []string
}

// Decide computes the install decision for a fact.
func Decide(fact *update.Fact) Decision {
	state := Classify(fact)

	switch state {
	case StateNoUpdate:
		return Decision{Reason: "no update available"}
	case StateScanClean:
		return Decision{Allowed: true, Reason: "scan clean"}
	case StateAISafe:
		return Decision{Allowed: true, Reason: "scan findings cleared by AI analysis", Warnings: Warnings(fact)}
	case StateAIReview:
		return Decision{Allowed: true, RequiresConfirmation: true, Reason: "AI recommends review", Warnings: Warnings(fact)}
	case StateAIDangerous:
		return Decision{Allowed: true, RequiresConfirmation: true, Deterrent: true, Reason: "AI flagged the changes as dangerous", Warnings: Warnings(fact)}
	default:
		return Decision{Allowed: true, RequiresConfirmation: true, Reason: "scan findings without a resolved AI verdict", Warnings: Warnings(fact)}
	}
}

// Warnings builds the verbatim warning list for display: every dangerous
// finding with its excerpt, plus the AI details when present.
func Warnings(fact *update.Fact) []string {
	if fact == nil || fact.Scan == nil {
		return nil
	}
	var warnings []string
	for _, f := range fact.Scan.Dangerous {
		warnings = append(warnings, fmt.Sprintf("[%s] %s: %s", f.DetectorID, f.Description, f.Excerpt))
	}
	if fact.VerdictDetails != "" {
		warnings = append(warnings, fmt.Sprintf("AI (%s): %s", fact.Verdict, strings.TrimSpace(fact.VerdictDetails)))
	}
	return warnings
}
