package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// ReadPackageVersion reads the "version" field from the checkout's
// package.json. Best-effort: any failure yields "".
func ReadPackageVersion(repoPath string) string {
	data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return cleanVersion(pkg.Version)
}

// cleanVersion normalizes a version string for display: no "v" prefix, no
// surrounding whitespace.
func cleanVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// VersionDelta classifies the relation between local and remote version
// strings. Semver-shaped pairs are compared properly; anything else is
// compared as opaque strings.
type VersionDelta int

const (
	// DeltaUnknown means one side is missing or the strings match.
	DeltaUnknown VersionDelta = iota
	// DeltaNewer means the remote version is ahead.
	DeltaNewer
	// DeltaOther means the strings differ but do not order as semver.
	DeltaOther
)

// CompareVersions reports how remote relates to local.
func CompareVersions(local, remote string) VersionDelta {
	local, remote = cleanVersion(local), cleanVersion(remote)
	if local == "" || remote == "" || local == remote {
		return DeltaUnknown
	}
	lv, rv := "v"+local, "v"+remote
	if semver.IsValid(lv) && semver.IsValid(rv) {
		if semver.Compare(rv, lv) > 0 {
			return DeltaNewer
		}
		return DeltaOther
	}
	return DeltaOther
}
