//go:build !windows

package control

import (
	"context"
	"os/exec"
)

// killByPattern uses pkill -f. pkill exits 1 when nothing matched, which
// is the desired outcome, not an error.
func killByPattern(ctx context.Context, pattern string) error {
	cmd := exec.CommandContext(ctx, "pkill", "-f", pattern)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}
