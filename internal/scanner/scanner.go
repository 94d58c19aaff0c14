// Package scanner performs the deterministic security scan of an incoming
// update diff. It looks only at added lines, flags known-dangerous shell
// constructs, and records normal CLI process markers as information without
// dirtying the result.
package scanner

import (
	"regexp"
	"strings"
)

// Detector is one dangerous-pattern matcher with a stable ID.
type Detector struct {
	// ID names the detector in events and findings.
	ID string
	// Description says what the pattern means when it fires.
	Description string
	// pattern is the compiled regex applied to each added line.
	pattern *regexp.Regexp
}

// maxExcerptLen bounds the matched line stored in a finding.
const maxExcerptLen = 100

// detectors is the ordered list of dangerous-pattern matchers. Order is
// stable so findings and events are reproducible across runs.
var detectors = []Detector{
	{
		ID:          "curl-pipe-shell",
		Description: "downloads a script with curl and pipes it to a shell",
		pattern:     regexp.MustCompile(`curl.*\|\s*(ba)?sh`),
	},
	{
		ID:          "wget-pipe-shell",
		Description: "downloads a script with wget and pipes it to a shell",
		pattern:     regexp.MustCompile(`wget.*\|\s*(ba)?sh`),
	},
	{
		ID:          "netcat-exec",
		Description: "netcat with command execution enabled",
		pattern:     regexp.MustCompile(`nc\s+-e`),
	},
	{
		ID:          "dev-tcp",
		Description: "raw TCP connection via /dev/tcp",
		pattern:     regexp.MustCompile(`/dev/tcp/`),
	},
	{
		ID:          "bash-reverse-shell",
		Description: "interactive bash with redirected streams, a reverse shell shape",
		pattern:     regexp.MustCompile(`bash\s+-i\s+>&`),
	},
	{
		ID:          "python-socket-oneliner",
		Description: "inline python opening a network socket",
		pattern:     regexp.MustCompile(`python[23]?\s+-c.*socket`),
	},
	{
		ID:          "rm-rf-root",
		Description: "recursive delete aimed at the filesystem root",
		pattern:     regexp.MustCompile(`rm\s+-rf\s+/[^.]`),
	},
	{
		ID:          "fork-bomb",
		Description: "classic shell fork bomb",
		pattern:     regexp.MustCompile(`:\(\)\s*\{\s*:\|:&\s*\}\s*;\s*:`),
	},
	{
		ID:          "mkfifo-shell",
		Description: "named pipe wired between netcat and a shell",
		pattern:     regexp.MustCompile(`mkfifo.*;\s*(nc|netcat).*\|\s*(/bin/)?sh`),
	},
}

// infoMarkers are substrings that are normal in a Node CLI codebase. They
// are recorded for context and never make a scan dirty.
var infoMarkers = []string{
	"child_process",
	"exec(",
	"spawn(",
	"execSync",
	"spawnSync",
}

// Finding is one detector hit. A detector contributes at most one finding
// per scan, carrying the first added line it matched.
type Finding struct {
	// DetectorID identifies which detector fired.
	DetectorID string
	// Description is the detector's description.
	Description string
	// Excerpt is the first matched line, trimmed and capped.
	Excerpt string
}

// InfoMarker is one normal-CLI marker occurrence.
type InfoMarker struct {
	// Marker is the substring that matched.
	Marker string
	// Count is how many added lines contained it.
	Count int
}

// Result is the outcome of one diff scan.
type Result struct {
	// Dangerous holds detector hits in detector declaration order. Any
	// entry makes the scan dirty.
	Dangerous []Finding
	// FilesChecked counts the files the pending update touches, kept for
	// audit display.
	FilesChecked int
	// Info holds normal-CLI marker counts. Informational only.
	Info []InfoMarker
	// NewScripts lists added files with script extensions.
	NewScripts []string
	// BinaryFiles lists changed binary files from numstat.
	BinaryFiles []string
}

// Clean reports whether the scan found no dangerous patterns. New scripts,
// binaries, and info markers do not affect cleanliness.
func (r *Result) Clean() bool {
	return len(r.Dangerous) == 0
}

// ScanDiff applies every detector and info marker to the added lines of a
// unified diff. Removed and context lines are ignored so deleting a
// dangerous construct never flags.
func ScanDiff(diff string) *Result {
	result := &Result{}

	var added []string
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		added = append(added, line[1:])
	}

	// One finding per detector, in declaration order, keeping the first
	// line that matched. Further hits on later lines add nothing.
	for _, d := range detectors {
		for _, content := range added {
			if d.pattern.MatchString(content) {
				result.Dangerous = append(result.Dangerous, Finding{
					DetectorID:  d.ID,
					Description: d.Description,
					Excerpt:     excerpt(content),
				})
				break
			}
		}
	}

	counts := make(map[string]int)
	for _, content := range added {
		for _, m := range infoMarkers {
			if strings.Contains(content, m) {
				counts[m]++
			}
		}
	}

	// Emit markers in declaration order for stable output.
	for _, m := range infoMarkers {
		if counts[m] > 0 {
			result.Info = append(result.Info, InfoMarker{Marker: m, Count: counts[m]})
		}
	}

	return result
}

// scriptExtensions mark files worth a new-script advisory.
var scriptExtensions = []string{".sh", ".bash", ".zsh", ".py", ".pl", ".rb"}

// scriptDirPrefixes are repo areas where new scripts are routine and never
// worth an advisory.
var scriptDirPrefixes = []string{"scripts/", "test/"}

// RecordNewScripts filters added files down to script-like paths outside
// the routine script directories and stores them on the result.
func (r *Result) RecordNewScripts(addedFiles []string) {
	for _, f := range addedFiles {
		if expectedScriptPath(f) {
			continue
		}
		lower := strings.ToLower(f)
		for _, ext := range scriptExtensions {
			if strings.HasSuffix(lower, ext) {
				r.NewScripts = append(r.NewScripts, f)
				break
			}
		}
	}
}

// expectedScriptPath reports whether the path sits under a directory where
// scripts belong.
func expectedScriptPath(f string) bool {
	for _, p := range scriptDirPrefixes {
		if strings.HasPrefix(f, p) {
			return true
		}
	}
	return false
}

// RecordBinaries parses git numstat lines and stores paths of binary
// changes, which numstat marks with "-" in both count columns.
func (r *Result) RecordBinaries(numstatLines []string) {
	for _, line := range numstatLines {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "-" && fields[1] == "-" {
			r.BinaryFiles = append(r.BinaryFiles, strings.Join(fields[2:], " "))
		}
	}
}

// excerpt trims and caps a matched line for storage.
func excerpt(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > maxExcerptLen {
		line = line[:maxExcerptLen]
	}
	return line
}

// Detectors exposes the detector list for display and tests.
func Detectors() []Detector {
	out := make([]Detector, len(detectors))
	copy(out, detectors)
	return out
}
