package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclaw/clawmon/internal/config"
)

// loadRecord reads the ledger file, classifying the outcome the same way
// the config state files do.
func loadRecord(path string, target *Record) config.LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.LoadResult{Source: config.SourceAbsent}
		}
		return config.LoadResult{Source: config.SourceCorrupt, Err: err}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return config.LoadResult{Source: config.SourceCorrupt, Err: fmt.Errorf("failed to parse %s: %w", path, err)}
	}
	return config.LoadResult{Source: config.SourceLoaded}
}

// saveRecord pretty-prints the record as a whole-file overwrite.
func saveRecord(path string, record *Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal usage record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
