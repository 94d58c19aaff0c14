package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Paths holds every filesystem location the monitor touches. All state files
// live under the OpenClaw config directory (~/.openclaw); the install
// directory is the git checkout being watched.
type Paths struct {
	// HomeDir is the user's home directory.
	HomeDir string
	// ConfigDir is the OpenClaw configuration directory (~/.openclaw).
	ConfigDir string
	// InstallDir is the OpenClaw git checkout.
	InstallDir string
	// MonitorConfigFile is the engine settings file (monitor.yaml).
	MonitorConfigFile string
	// PrefsFile persists monitor preferences (monitor-config.json).
	PrefsFile string
	// LastCheckFile persists the auto update-check timestamp.
	LastCheckFile string
	// UsageFile persists the daily usage ledger.
	UsageFile string
	// EventsDB is the sqlite event log.
	EventsDB string
	// OpenClawConfigFile is the tool's own config (openclaw.json).
	OpenClawConfigFile string
	// WatchdogScript is the external control script.
	WatchdogScript string
	// LogDir holds the daily-rotated gateway logs.
	LogDir string
}

// DefaultPaths resolves the standard path layout for the current user.
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(home, ".openclaw")
	p := &Paths{
		HomeDir:            home,
		ConfigDir:          configDir,
		InstallDir:         findInstallDir(home),
		MonitorConfigFile:  filepath.Join(configDir, "monitor.yaml"),
		PrefsFile:          filepath.Join(configDir, "monitor-config.json"),
		LastCheckFile:      filepath.Join(configDir, "last-update-check.json"),
		UsageFile:          filepath.Join(configDir, "usage-stats.json"),
		EventsDB:           filepath.Join(configDir, "monitor-events.db"),
		OpenClawConfigFile: filepath.Join(configDir, "openclaw.json"),
		WatchdogScript:     filepath.Join(configDir, "scripts", "watchdog.sh"),
		LogDir:             logDir(configDir),
	}
	return p, nil
}

// findInstallDir locates the OpenClaw checkout. OPENCLAW_DIR wins; otherwise
// the first well-known location containing a package.json is used, falling
// back to ~/clawdbot.
func findInstallDir(home string) string {
	if env := os.Getenv("OPENCLAW_DIR"); env != "" {
		return env
	}

	candidates := []string{
		filepath.Join(home, "clawdbot"),
		filepath.Join(home, "openclaw"),
		filepath.Join(home, "OpenClaw"),
		"/opt/openclaw",
		"/usr/local/openclaw",
	}
	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir
		}
	}
	return filepath.Join(home, "clawdbot")
}

// logDir returns the directory containing the daily gateway logs.
// Unix systems log to /tmp/openclaw; Windows logs under the config dir.
func logDir(configDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(configDir, "logs")
	}
	return filepath.Join(os.TempDir(), "openclaw")
}

// DailyLogFile returns the path of the gateway log for the given day.
// Log files are rotated by filename date suffix.
func (p *Paths) DailyLogFile(day time.Time) string {
	return filepath.Join(p.LogDir, "openclaw-"+day.Format("2006-01-02")+".log")
}
