package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Source says where a loaded value came from.
type Source int

const (
	// SourceLoaded means the file existed and parsed cleanly.
	SourceLoaded Source = iota
	// SourceAbsent means the file did not exist; defaults apply.
	SourceAbsent
	// SourceCorrupt means the file existed but could not be parsed;
	// defaults apply, and the error should be logged.
	SourceCorrupt
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceLoaded:
		return "loaded"
	case SourceAbsent:
		return "absent"
	case SourceCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// LoadResult reports the outcome of loading a config or state file.
// Absent and corrupt both fall back to defaults; only corrupt carries an
// error worth logging.
type LoadResult struct {
	Source Source
	Err    error
}

// Prefs are the monitor's persisted preferences.
type Prefs struct {
	// Language is the UI language code ("en", "de", "fr", "it", "es").
	Language string `json:"language"`
	// AdvancedExpanded remembers whether the advanced section was open.
	AdvancedExpanded bool `json:"advanced_expanded"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() *Prefs {
	return &Prefs{Language: "en"}
}

// LoadPrefs reads monitor-config.json.
func LoadPrefs(path string) (*Prefs, LoadResult) {
	prefs := DefaultPrefs()
	res := readJSONFile(path, prefs)
	if res.Source != SourceLoaded {
		return DefaultPrefs(), res
	}
	if prefs.Language == "" {
		prefs.Language = "en"
	}
	return prefs, res
}

// SavePrefs writes monitor-config.json, creating the directory if needed.
func SavePrefs(path string, prefs *Prefs) error {
	return writeJSONFile(path, prefs)
}

// lastCheckState is the on-disk shape of the auto-check timestamp.
type lastCheckState struct {
	LastCheck string `json:"last_check"`
}

// LoadLastCheck reads the persisted update-check timestamp. A missing or
// unparseable file yields the zero time, which always permits a check.
func LoadLastCheck(path string) (time.Time, LoadResult) {
	var state lastCheckState
	res := readJSONFile(path, &state)
	if res.Source != SourceLoaded {
		return time.Time{}, res
	}
	t, err := time.Parse(time.RFC3339, state.LastCheck)
	if err != nil {
		return time.Time{}, LoadResult{Source: SourceCorrupt, Err: fmt.Errorf("bad last_check timestamp: %w", err)}
	}
	return t, res
}

// SaveLastCheck persists the update-check timestamp.
func SaveLastCheck(path string, t time.Time) error {
	return writeJSONFile(path, lastCheckState{LastCheck: t.Format(time.RFC3339)})
}

// readJSONFile unmarshals path into target, classifying the outcome.
func readJSONFile(path string, target interface{}) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{Source: SourceAbsent}
		}
		return LoadResult{Source: SourceCorrupt, Err: err}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return LoadResult{Source: SourceCorrupt, Err: fmt.Errorf("failed to parse %s: %w", path, err)}
	}
	return LoadResult{Source: SourceLoaded}
}

// writeJSONFile pretty-prints target to path as a whole-file overwrite.
func writeJSONFile(path string, target interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(target, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
