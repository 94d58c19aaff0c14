package ai

import (
	"context"
	"fmt"
	"strings"
)

// Analysis is the outcome of one AI security analysis.
type Analysis struct {
	// Verdict is the parsed classification.
	Verdict Verdict
	// Details is the raw (truncated) model response for audit display.
	Details string
}

// VerdictClient analyzes a diff excerpt and returns a verdict. All
// implementations are best-effort: an unreachable service or unparseable
// response yields an error, which callers record as VerdictNone.
type VerdictClient interface {
	// AnalyzeDiff sends a size-bounded diff excerpt for classification.
	AnalyzeDiff(ctx context.Context, diff string) (*Analysis, error)
}

// maxDetailLen bounds the stored raw response.
const maxDetailLen = 500

// analysisInstruction is the fixed instruction sent with every diff.
const analysisInstruction = `Analyze this git diff for security issues.
Focus on: remote code execution, data exfiltration, backdoors, obfuscation.
Context: This is for OpenClaw, a CLI tool that legitimately uses
child_process/exec for terminal operations.

Reply with just SAFE, REVIEW, or DANGEROUS and one sentence why.`

// buildPrompt assembles the analysis prompt, capping the diff excerpt.
func buildPrompt(diff string, maxDiffBytes int) string {
	if maxDiffBytes > 0 && len(diff) > maxDiffBytes {
		diff = diff[:maxDiffBytes]
	}
	return fmt.Sprintf("%s\n\nDiff:\n%s", analysisInstruction, diff)
}

// truncate bounds s to n bytes for storage and display.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
