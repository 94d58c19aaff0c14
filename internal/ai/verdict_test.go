package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Verdict
	}{
		{"plain safe", "SAFE. Routine refactor.", VerdictSafe},
		{"lowercase safe", "this looks safe to me", VerdictSafe},
		{"review", "REVIEW: unusual network code, worth a human look", VerdictReview},
		{"dangerous", "DANGEROUS - downloads and executes remote code", VerdictDangerous},
		{"no keyword", "I cannot analyze this diff.", VerdictNone},
		{"empty", "", VerdictNone},
		{"dangerous beats safe", "It would be SAFE except for one DANGEROUS call.", VerdictDangerous},
		{"dangerous beats review", "REVIEW needed; frankly this is DANGEROUS.", VerdictDangerous},
		{"review beats safe", "Mostly safe but REVIEW the exec call.", VerdictReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseVerdict(tt.response))
		})
	}
}

func TestBuildPromptCapsDiff(t *testing.T) {
	diff := strings.Repeat("x", 10000)
	prompt := buildPrompt(diff, 8000)
	assert.Contains(t, prompt, analysisInstruction)
	// Instruction plus capped excerpt plus framing, never the full diff.
	assert.Less(t, len(prompt), 8000+len(analysisInstruction)+100)
}

func TestBuildPromptSmallDiffUntouched(t *testing.T) {
	prompt := buildPrompt("+added line", 8000)
	assert.Contains(t, prompt, "+added line")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("  abc  ", 10))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
}
