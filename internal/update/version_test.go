package update

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPackageVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"name": "openclaw", "version": "v2.1.0"}`), 0644))

	assert.Equal(t, "2.1.0", ReadPackageVersion(dir))
}

func TestReadPackageVersionMissing(t *testing.T) {
	assert.Equal(t, "", ReadPackageVersion(t.TempDir()))
}

func TestReadPackageVersionCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{nope"), 0644))
	assert.Equal(t, "", ReadPackageVersion(dir))
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name          string
		local, remote string
		expected      VersionDelta
	}{
		{"remote ahead", "2.1.0", "2.2.0", DeltaNewer},
		{"with v prefix", "v2.1.0", "v2.2.0", DeltaNewer},
		{"equal", "2.1.0", "2.1.0", DeltaUnknown},
		{"missing local", "", "2.1.0", DeltaUnknown},
		{"remote behind", "2.2.0", "2.1.0", DeltaOther},
		{"non-semver", "nightly-123", "nightly-124", DeltaOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareVersions(tt.local, tt.remote))
		})
	}
}
