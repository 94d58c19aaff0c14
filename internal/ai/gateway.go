package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// GatewayClient asks the locally running gateway for a verdict. The gateway
// answers with the model the user already configured, so no extra API key
// is needed.
type GatewayClient struct {
	baseURL      string
	httpClient   *http.Client
	maxDiffBytes int
	limiter      *rate.Limiter
}

// GatewayConfig holds gateway client settings.
type GatewayConfig struct {
	// Port is the gateway's local TCP port.
	Port int
	// Timeout bounds one verdict request. Default: 45s.
	Timeout time.Duration
	// MaxDiffBytes caps the diff excerpt. Default: 8000.
	MaxDiffBytes int
}

// NewGatewayClient creates a verdict client against localhost.
func NewGatewayClient(cfg GatewayConfig) *GatewayClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	maxDiff := cfg.MaxDiffBytes
	if maxDiff <= 0 {
		maxDiff = 8000
	}
	return &GatewayClient{
		baseURL:      fmt.Sprintf("http://127.0.0.1:%d", cfg.Port),
		httpClient:   &http.Client{Timeout: timeout},
		maxDiffBytes: maxDiff,
		// One request per 10s with a burst of 2: a recheck right after an
		// automatic analysis goes through, hammering does not.
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 2),
	}
}

// askRequest is the gateway's ask endpoint payload.
type askRequest struct {
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// askResponse is the gateway's answer shape.
type askResponse struct {
	Text string `json:"text"`
}

// AnalyzeDiff sends the capped diff to the gateway and parses the verdict.
func (c *GatewayClient) AnalyzeDiff(ctx context.Context, diff string) (*Analysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("verdict request cancelled: %w", err)
	}

	body, err := json.Marshal(askRequest{Prompt: buildPrompt(diff, c.maxDiffBytes)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	// Prefer the JSON shape; fall back to treating the body as plain text.
	text := string(raw)
	var parsed askResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Text != "" {
		text = parsed.Text
	}

	verdict := ParseVerdict(text)
	if verdict == VerdictNone {
		return nil, fmt.Errorf("no verdict keyword in gateway response")
	}
	return &Analysis{Verdict: verdict, Details: truncate(text, maxDetailLen)}, nil
}
