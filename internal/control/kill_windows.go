//go:build windows

package control

import (
	"context"
	"os/exec"
	"strings"
)

// killByPattern uses taskkill by image name. "not found" is success.
func killByPattern(ctx context.Context, pattern string) error {
	cmd := exec.CommandContext(ctx, "taskkill", "/F", "/IM", pattern+"*")
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(string(output)), "not found") {
		return nil
	}
	return err
}
