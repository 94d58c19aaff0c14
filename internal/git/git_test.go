package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRemoteRef(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		remote string
		branch string
	}{
		{"remote and branch", "origin/main", "origin", "main"},
		{"branch with slash", "origin/release/2.x", "origin", "release/2.x"},
		{"bare remote defaults to main", "upstream", "upstream", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, branch := SplitRemoteRef(tt.ref)
			assert.Equal(t, tt.remote, remote)
			assert.Equal(t, tt.branch, branch)
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("a\n  b \n\n\nc\n")
	assert.Equal(t, []string{"a", "b", "c"}, lines)

	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("\n\n"))
}
