package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ModelOption is one selectable AI model.
type ModelOption struct {
	// ID is the provider-qualified model identifier.
	ID string
	// Label is the human-readable name shown in pickers.
	Label string
}

// DefaultModel is used when openclaw.json has no model configured.
const DefaultModel = "anthropic/claude-opus-4-5"

// AvailableModels lists the models the gateway can be switched between.
// The fallback entry for an unknown configured model is the raw ID itself.
var AvailableModels = []ModelOption{
	{ID: "anthropic/claude-opus-4-5", Label: "Claude Opus 4.5 (Best)"},
	{ID: "anthropic/claude-sonnet-4", Label: "Claude Sonnet 4 (Fast)"},
	{ID: "anthropic/claude-haiku-3", Label: "Claude Haiku 3 (Fastest)"},
	{ID: "groq/llama-3.3-70b-versatile", Label: "Llama 3.3 70B (Groq)"},
	{ID: "groq/llama-3.1-8b-instant", Label: "Llama 3.1 8B (Groq Fast)"},
	{ID: "openai/gpt-4o", Label: "GPT-4o (OpenAI)"},
	{ID: "openai/gpt-4o-mini", Label: "GPT-4o Mini (OpenAI)"},
}

// ModelLabel returns the label for a model ID, or the ID itself when the
// model is not in the catalog.
func ModelLabel(id string) string {
	for _, m := range AvailableModels {
		if m.ID == id {
			return m.Label
		}
	}
	return id
}

// CurrentModel reads the configured primary model from openclaw.json.
// The tool stores it at agents.defaults.model, either as a plain string or
// as an object with a "primary" key. Parse failures fall back to the
// default model.
func CurrentModel(path string) (string, LoadResult) {
	var root map[string]interface{}
	res := readJSONFile(path, &root)
	if res.Source != SourceLoaded {
		return DefaultModel, res
	}

	model := dig(root, "agents", "defaults", "model")
	switch v := model.(type) {
	case string:
		if v != "" {
			return v, res
		}
	case map[string]interface{}:
		if primary, ok := v["primary"].(string); ok && primary != "" {
			return primary, res
		}
	}
	return DefaultModel, res
}

// SetModel writes the primary model into openclaw.json, preserving every
// other key in the file.
func SetModel(path, modelID string) error {
	root := map[string]interface{}{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	agents := ensureMap(root, "agents")
	defaults := ensureMap(agents, "defaults")

	if m, ok := defaults["model"].(map[string]interface{}); ok {
		m["primary"] = modelID
	} else {
		defaults["model"] = map[string]interface{}{"primary": modelID}
	}

	return writeJSONFile(path, root)
}

// dig walks nested maps by key, returning nil when any level is missing.
func dig(m map[string]interface{}, keys ...string) interface{} {
	var cur interface{} = m
	for _, k := range keys {
		node, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = node[k]
	}
	return cur
}

// ensureMap returns m[key] as a map, creating it if absent or mistyped.
func ensureMap(m map[string]interface{}, key string) map[string]interface{} {
	if child, ok := m[key].(map[string]interface{}); ok {
		return child
	}
	child := map[string]interface{}{}
	m[key] = child
	return child
}
