// Package config loads monitor settings and the small JSON state files the
// engine persists between runs. A missing file always means defaults; a
// corrupt file also falls back to defaults but is reported distinctly so the
// two cases stay visible in the logs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds engine settings loaded from monitor.yaml.
type Config struct {
	// PollInterval is the scheduler tick period.
	PollInterval time.Duration `yaml:"poll_interval"`

	// GatewayPort is the gateway's well-known TCP port.
	GatewayPort int `yaml:"gateway_port"`

	// ProbeTimeout bounds every shell-mediated probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// LogMaxAge is the freshness threshold for the daily log.
	LogMaxAge time.Duration `yaml:"log_max_age"`

	// GitTimeout bounds individual git invocations. Fetch and pull get
	// their own longer bounds in the update detector.
	GitTimeout time.Duration `yaml:"git_timeout"`

	// RemoteBranch is the remote tracking branch updates come from.
	RemoteBranch string `yaml:"remote_branch"`

	// WatchdogPattern matches the watchdog process command line.
	WatchdogPattern string `yaml:"watchdog_pattern"`

	// GatewayPattern matches the gateway process command line.
	GatewayPattern string `yaml:"gateway_pattern"`

	// TUIPattern matches the TUI client process command line.
	TUIPattern string `yaml:"tui_pattern"`

	// AIProvider selects the verdict backend: "gateway", "anthropic", "off".
	AIProvider string `yaml:"ai_provider"`

	// AITimeout bounds a single verdict request.
	AITimeout time.Duration `yaml:"ai_timeout"`

	// MaxDiffBytes caps the diff excerpt sent for AI analysis.
	MaxDiffBytes int `yaml:"max_diff_bytes"`

	// InstallTimeout bounds the dependency install and build steps.
	InstallTimeout time.Duration `yaml:"install_timeout"`

	// HighCostThreshold emits a warning event when the daily cost crosses
	// it. Zero disables the advisory.
	HighCostThreshold float64 `yaml:"high_cost_threshold"`

	// EventRetention is how long stored events are kept before pruning.
	EventRetention time.Duration `yaml:"event_retention"`

	// LogLevel is the zerolog level for engine logging.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the engine defaults. Every value can be overridden
// in monitor.yaml.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:      5 * time.Second,
		GatewayPort:       18789,
		ProbeTimeout:      10 * time.Second,
		LogMaxAge:         5 * time.Minute,
		GitTimeout:        15 * time.Second,
		RemoteBranch:      "origin/main",
		WatchdogPattern:   "watchdog",
		GatewayPattern:    "openclaw-gateway",
		TUIPattern:        "openclaw.*tui",
		AIProvider:        "gateway",
		AITimeout:         45 * time.Second,
		MaxDiffBytes:      8000,
		InstallTimeout:    3 * time.Minute,
		HighCostThreshold: 0,
		EventRetention:    30 * 24 * time.Hour,
		LogLevel:          "info",
	}
}

// Load reads monitor.yaml from path. The returned LoadResult says whether
// the file was loaded, absent, or corrupt; the Config is always usable.
func Load(path string) (*Config, LoadResult) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, LoadResult{Source: SourceAbsent}
		}
		return cfg, LoadResult{Source: SourceCorrupt, Err: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), LoadResult{
			Source: SourceCorrupt,
			Err:    fmt.Errorf("failed to parse %s: %w", path, err),
		}
	}

	cfg.sanitize()
	return cfg, LoadResult{Source: SourceLoaded}
}

// sanitize clamps nonsensical values back to defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.GatewayPort <= 0 || c.GatewayPort > 65535 {
		c.GatewayPort = def.GatewayPort
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	if c.LogMaxAge <= 0 {
		c.LogMaxAge = def.LogMaxAge
	}
	if c.GitTimeout <= 0 {
		c.GitTimeout = def.GitTimeout
	}
	if c.RemoteBranch == "" {
		c.RemoteBranch = def.RemoteBranch
	}
	if c.WatchdogPattern == "" {
		c.WatchdogPattern = def.WatchdogPattern
	}
	if c.GatewayPattern == "" {
		c.GatewayPattern = def.GatewayPattern
	}
	if c.TUIPattern == "" {
		c.TUIPattern = def.TUIPattern
	}
	if c.AITimeout <= 0 {
		c.AITimeout = def.AITimeout
	}
	if c.MaxDiffBytes <= 0 {
		c.MaxDiffBytes = def.MaxDiffBytes
	}
	if c.InstallTimeout <= 0 {
		c.InstallTimeout = def.InstallTimeout
	}
	if c.EventRetention <= 0 {
		c.EventRetention = def.EventRetention
	}
}
