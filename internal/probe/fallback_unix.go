//go:build !windows

package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// processFallback shells out to pgrep when native enumeration fails.
// Exit status 1 means "no match", which is a clean negative.
func processFallback(ctx context.Context, pattern string) (bool, error) {
	cmd := exec.CommandContext(ctx, "pgrep", "-f", pattern)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, fmt.Errorf("pgrep failed: %w", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// connectionFallback greps lsof output for an established connection on the
// port.
func connectionFallback(ctx context.Context, port int) (bool, error) {
	cmd := exec.CommandContext(ctx, "lsof", "-i", fmt.Sprintf(":%d", port))
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("lsof failed: %w", err)
	}
	return strings.Contains(string(output), "ESTABLISHED"), nil
}
