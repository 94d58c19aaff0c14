package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAbsentGivesDefaults(t *testing.T) {
	cfg, res := Load(filepath.Join(t.TempDir(), "monitor.yaml"))
	assert.Equal(t, SourceAbsent, res.Source)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"poll_interval: 10s\ngateway_port: 9999\nremote_branch: origin/dev\n"), 0644))

	cfg, res := Load(path)
	assert.Equal(t, SourceLoaded, res.Source)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 9999, cfg.GatewayPort)
	assert.Equal(t, "origin/dev", cfg.RemoteBranch)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultConfig().LogMaxAge, cfg.LogMaxAge)
}

// TestLoadCorruptGivesDefaults checks corrupt is reported distinctly from
// absent while still yielding a usable config.
func TestLoadCorruptGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: [not a duration"), 0644))

	cfg, res := Load(path)
	assert.Equal(t, SourceCorrupt, res.Source)
	assert.Error(t, res.Err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSanitizeClampsNonsense(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"poll_interval: -5s\ngateway_port: 99999\n"), 0644))

	cfg, _ := Load(path)
	assert.Equal(t, DefaultConfig().PollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultConfig().GatewayPort, cfg.GatewayPort)
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor-config.json")

	prefs, res := LoadPrefs(path)
	assert.Equal(t, SourceAbsent, res.Source)
	assert.Equal(t, "en", prefs.Language)

	prefs.Language = "de"
	prefs.AdvancedExpanded = true
	require.NoError(t, SavePrefs(path, prefs))

	loaded, res := LoadPrefs(path)
	assert.Equal(t, SourceLoaded, res.Source)
	assert.Equal(t, "de", loaded.Language)
	assert.True(t, loaded.AdvancedExpanded)
}

func TestLastCheckRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-update-check.json")

	ts, res := LoadLastCheck(path)
	assert.Equal(t, SourceAbsent, res.Source)
	assert.True(t, ts.IsZero())

	now := time.Now().Truncate(time.Second)
	require.NoError(t, SaveLastCheck(path, now))

	loaded, res := LoadLastCheck(path)
	assert.Equal(t, SourceLoaded, res.Source)
	assert.True(t, loaded.Equal(now))
}

func TestLastCheckCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-update-check.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_check": "not a timestamp"}`), 0644))

	ts, res := LoadLastCheck(path)
	assert.Equal(t, SourceCorrupt, res.Source)
	assert.True(t, ts.IsZero())
}

func TestDailyLogFile(t *testing.T) {
	p := &Paths{LogDir: "/tmp/openclaw"}
	day := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("/tmp/openclaw", "openclaw-2026-08-28.log"), p.DailyLogFile(day))
}

func TestFindInstallDirEnvOverride(t *testing.T) {
	t.Setenv("OPENCLAW_DIR", "/custom/openclaw")
	assert.Equal(t, "/custom/openclaw", findInstallDir("/home/user"))
}

func TestCurrentModel(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"object shape", `{"agents": {"defaults": {"model": {"primary": "openai/gpt-4o"}}}}`, "openai/gpt-4o"},
		{"string shape", `{"agents": {"defaults": {"model": "groq/llama-3.1-8b-instant"}}}`, "groq/llama-3.1-8b-instant"},
		{"no model key", `{"agents": {}}`, DefaultModel},
		{"empty file", `{}`, DefaultModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "openclaw.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			model, res := CurrentModel(path)
			assert.Equal(t, SourceLoaded, res.Source)
			assert.Equal(t, tt.expected, model)
		})
	}
}

func TestCurrentModelAbsent(t *testing.T) {
	model, res := CurrentModel(filepath.Join(t.TempDir(), "openclaw.json"))
	assert.Equal(t, SourceAbsent, res.Source)
	assert.Equal(t, DefaultModel, model)
}

// TestSetModelPreservesOtherKeys checks the write keeps unrelated config
// the tool itself owns.
func TestSetModelPreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"gateway": {"port": 18789}, "agents": {"defaults": {"model": "old"}}}`), 0644))

	require.NoError(t, SetModel(path, "anthropic/claude-sonnet-4"))

	model, _ := CurrentModel(path)
	assert.Equal(t, "anthropic/claude-sonnet-4", model)

	var root map[string]interface{}
	res := readJSONFile(path, &root)
	require.Equal(t, SourceLoaded, res.Source)
	gw, ok := root["gateway"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(18789), gw["port"])
}

func TestSetModelCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	require.NoError(t, SetModel(path, "openai/gpt-4o-mini"))

	model, res := CurrentModel(path)
	assert.Equal(t, SourceLoaded, res.Source)
	assert.Equal(t, "openai/gpt-4o-mini", model)
}

func TestModelLabel(t *testing.T) {
	assert.Equal(t, "Claude Opus 4.5 (Best)", ModelLabel("anthropic/claude-opus-4-5"))
	assert.Equal(t, "custom/model", ModelLabel("custom/model"))
}
