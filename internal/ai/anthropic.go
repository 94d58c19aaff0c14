package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// UsageRecorder receives token counts from direct API calls so the usage
// ledger can account for analysis costs the gateway would otherwise hide.
type UsageRecorder interface {
	RecordUsage(model string, inputTokens, outputTokens int64)
}

// AnthropicClient is the direct-API fallback used when the gateway is down
// but a security verdict is still wanted before an install.
type AnthropicClient struct {
	client       *anthropic.Client
	model        string
	maxDiffBytes int
	usage        UsageRecorder
}

// AnthropicConfig holds direct API client settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. Empty reads ANTHROPIC_API_KEY.
	APIKey string
	// Model is the model ID, possibly prefixed "anthropic/" as stored in
	// the OpenClaw config.
	Model string
	// MaxDiffBytes caps the diff excerpt. Default: 8000.
	MaxDiffBytes int
	// Usage optionally receives token counts for ledger accounting.
	Usage UsageRecorder
}

// NewAnthropicClient creates a direct API verdict client.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := strings.TrimPrefix(cfg.Model, "anthropic/")
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxDiff := cfg.MaxDiffBytes
	if maxDiff <= 0 {
		maxDiff = 8000
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:       &client,
		model:        model,
		maxDiffBytes: maxDiff,
		usage:        cfg.Usage,
	}, nil
}

// AnalyzeDiff calls the Messages API with the capped diff and parses the
// verdict from the text blocks of the response.
func (c *AnthropicClient) AnalyzeDiff(ctx context.Context, diff string) (*Analysis, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(diff, c.maxDiffBytes))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	if c.usage != nil {
		c.usage.RecordUsage(c.model, response.Usage.InputTokens, response.Usage.OutputTokens)
	}

	var responseText string
	for _, block := range response.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	verdict := ParseVerdict(responseText)
	if verdict == VerdictNone {
		return nil, fmt.Errorf("no verdict keyword in model response")
	}
	return &Analysis{Verdict: verdict, Details: truncate(responseText, maxDetailLen)}, nil
}
