//go:build windows

package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// processFallback shells out to tasklist when native enumeration fails.
func processFallback(ctx context.Context, pattern string) (bool, error) {
	filter := fmt.Sprintf("IMAGENAME eq %s*", pattern)
	cmd := exec.CommandContext(ctx, "tasklist", "/FI", filter)
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("tasklist failed: %w", err)
	}
	return strings.Contains(strings.ToLower(string(output)), strings.ToLower(pattern)), nil
}

// connectionFallback greps netstat output for an established connection on
// the port.
func connectionFallback(ctx context.Context, port int) (bool, error) {
	cmd := exec.CommandContext(ctx, "netstat", "-an")
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("netstat failed: %w", err)
	}
	needle := fmt.Sprintf(":%d", port)
	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, needle) && strings.Contains(line, "ESTABLISHED") {
			return true, nil
		}
	}
	return false, nil
}
