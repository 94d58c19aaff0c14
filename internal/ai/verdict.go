// Package ai obtains a secondary security opinion on incoming changes from
// an external language model. The response is treated as an opaque verdict
// string; this package never implements inference itself.
package ai

import "strings"

// Verdict is the AI classification of a change set.
type Verdict string

const (
	// VerdictNone means no analysis ran or it could not be resolved.
	// The install gate must treat this as unresolved, never as safe.
	VerdictNone Verdict = ""
	// VerdictSafe means the AI found no security issues.
	VerdictSafe Verdict = "SAFE"
	// VerdictReview means the AI recommends a human look.
	VerdictReview Verdict = "REVIEW"
	// VerdictDangerous means the AI flagged the changes as likely malicious.
	VerdictDangerous Verdict = "DANGEROUS"
)

// ParseVerdict extracts a verdict from a free-text model response by
// case-folded substring search. When a response contains more than one
// keyword the fixed priority Dangerous > Review > Safe is the tie-break.
func ParseVerdict(response string) Verdict {
	upper := strings.ToUpper(response)
	switch {
	case strings.Contains(upper, string(VerdictDangerous)):
		return VerdictDangerous
	case strings.Contains(upper, string(VerdictReview)):
		return VerdictReview
	case strings.Contains(upper, string(VerdictSafe)):
		return VerdictSafe
	default:
		return VerdictNone
	}
}
