// Package git wraps the git CLI operations the update pipeline needs.
// Everything shells out; nothing parses git internals.
package git

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Git runs version-control operations against a local checkout using the
// git CLI.
type Git struct {
	// gitPath is the path to the git executable.
	gitPath string
}

// New creates a Git instance and verifies that git is available.
func New(ctx context.Context) (*Git, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, gitPath, "version")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git command failed: %w", err)
	}

	return &Git{gitPath: gitPath}, nil
}

// run executes a git command in repoPath and returns trimmed stdout.
func (g *Git) run(ctx context.Context, repoPath string, args ...string) (string, error) {
	full := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, g.gitPath, full...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed in %s: %w", args[0], repoPath, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Fetch updates remote tracking refs for the named remote.
func (g *Git) Fetch(ctx context.Context, repoPath, remote string) error {
	if _, err := g.run(ctx, repoPath, "fetch", remote); err != nil {
		return err
	}
	return nil
}

// CommitsBehind counts commits on remoteRef that are absent from HEAD.
func (g *Git) CommitsBehind(ctx context.Context, repoPath, remoteRef string) (int, error) {
	out, err := g.run(ctx, repoPath, "rev-list", "--count", "HEAD.."+remoteRef)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Describe resolves a human-readable version for a rev: the nearest tag if
// one exists, else the short commit hash. An empty rev describes HEAD.
func (g *Git) Describe(ctx context.Context, repoPath, rev string) (string, error) {
	args := []string{"describe", "--tags", "--always"}
	if rev != "" {
		args = append(args, rev)
	}
	out, err := g.run(ctx, repoPath, args...)
	if err != nil {
		// Fall back to the short hash directly.
		target := rev
		if target == "" {
			target = "HEAD"
		}
		return g.run(ctx, repoPath, "rev-parse", "--short", target)
	}
	return out, nil
}

// LogGrep returns the one-line subjects of commits in HEAD..remoteRef whose
// messages match any of the patterns, case-insensitively.
func (g *Git) LogGrep(ctx context.Context, repoPath, remoteRef string, patterns []string) ([]string, error) {
	args := []string{"log", "HEAD.." + remoteRef, "--oneline", "-i"}
	for _, p := range patterns {
		args = append(args, "--grep="+p)
	}
	out, err := g.run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// DiffNameOnly lists files changed in HEAD..remoteRef. A non-empty filter
// (e.g. "A" for added) restricts by change kind.
func (g *Git) DiffNameOnly(ctx context.Context, repoPath, remoteRef, filter string) ([]string, error) {
	args := []string{"diff", "--name-only", "HEAD.." + remoteRef}
	if filter != "" {
		args = append(args, "--diff-filter="+filter)
	}
	out, err := g.run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// DiffNumstat returns the numstat lines for HEAD..remoteRef. Binary files
// show "-" for both counts.
func (g *Git) DiffNumstat(ctx context.Context, repoPath, remoteRef string) ([]string, error) {
	out, err := g.run(ctx, repoPath, "diff", "--numstat", "HEAD.."+remoteRef)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Diff returns the unified diff of HEAD..remoteRef with the given context
// line count.
func (g *Git) Diff(ctx context.Context, repoPath, remoteRef string, unified int) (string, error) {
	out, err := g.run(ctx, repoPath, "diff", fmt.Sprintf("-U%d", unified), "HEAD.."+remoteRef)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Pull fast-forwards the checkout from the remote branch. remoteRef is of
// the form "origin/main"; it is split into remote and branch for the pull.
func (g *Git) Pull(ctx context.Context, repoPath, remoteRef string) error {
	remote, branch := SplitRemoteRef(remoteRef)
	if _, err := g.run(ctx, repoPath, "pull", remote, branch); err != nil {
		return err
	}
	return nil
}

// SplitRemoteRef splits "origin/main" into ("origin", "main"). A ref with
// no slash is treated as a remote with branch "main".
func SplitRemoteRef(remoteRef string) (remote, branch string) {
	parts := strings.SplitN(remoteRef, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return remoteRef, "main"
}

// splitLines splits command output into non-empty trimmed lines.
func splitLines(out string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
