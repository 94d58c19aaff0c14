package usage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "usage-stats.json")
}

func TestAddUsageArithmetic(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ledgerPath(t), 0, nil)

	l.AddUsage(ctx, 100, 0.02, "m1")
	l.AddUsage(ctx, 50, 0.01, "m1")

	today := l.Today()
	assert.Equal(t, int64(150), today.Tokens)
	assert.InDelta(t, 0.03, today.Cost, 1e-9)
	assert.Equal(t, int64(150), today.ByModel["m1"].Tokens)
	assert.InDelta(t, 0.03, today.ByModel["m1"].Cost, 1e-9)
}

func TestAddUsagePerModelBreakdown(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ledgerPath(t), 0, nil)

	l.AddUsage(ctx, 100, 0.02, "m1")
	l.AddUsage(ctx, 30, 0.05, "m2")

	today := l.Today()
	assert.Equal(t, int64(130), today.Tokens)
	assert.Equal(t, int64(100), today.ByModel["m1"].Tokens)
	assert.Equal(t, int64(30), today.ByModel["m2"].Tokens)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ledgerPath(t), 0, nil)

	l.AddUsage(ctx, 100, 0.02, "m1")
	l.Reset(ctx)

	today := l.Today()
	assert.Zero(t, today.Tokens)
	assert.Zero(t, today.Cost)
	assert.Empty(t, today.ByModel)
}

// TestPersistAcrossReload checks the whole-file overwrite survives a new
// ledger instance on the same day.
func TestPersistAcrossReload(t *testing.T) {
	ctx := context.Background()
	path := ledgerPath(t)

	NewLedger(path, 0, nil).AddUsage(ctx, 100, 0.02, "m1")

	reloaded := NewLedger(path, 0, nil)
	assert.Equal(t, int64(100), reloaded.Today().Tokens)
}

// TestYesterdayDiscarded checks a persisted record from another day starts
// the ledger at zero.
func TestYesterdayDiscarded(t *testing.T) {
	path := ledgerPath(t)
	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)
	record := Record{Date: yesterday, Tokens: 500, Cost: 1.25, ByModel: map[string]ModelUsage{
		"m1": {Tokens: 500, Cost: 1.25},
	}}
	require.NoError(t, saveRecord(path, &record))

	l := NewLedger(path, 0, nil)
	today := l.Today()
	assert.Zero(t, today.Tokens)
	assert.Zero(t, today.Cost)
	assert.Empty(t, today.ByModel)
}

// TestDayRollover checks totals are discarded when the clock crosses into
// a new day mid-process.
func TestDayRollover(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(ledgerPath(t), 0, nil)

	now := time.Now()
	l.now = func() time.Time { return now }
	l.AddUsage(ctx, 100, 0.02, "m1")

	l.now = func() time.Time { return now.AddDate(0, 0, 1) }
	assert.Zero(t, l.Today().Tokens)
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := ledgerPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	l := NewLedger(path, 0, nil)
	assert.Zero(t, l.Today().Tokens)
}

// TestRecordUsageConvertsTokens checks the direct-API bridge books token
// counts at list price.
func TestRecordUsageConvertsTokens(t *testing.T) {
	l := NewLedger(ledgerPath(t), 0, nil)
	l.RecordUsage("claude-opus-4-5", 1_000_000, 1_000_000)

	today := l.Today()
	assert.Equal(t, int64(2_000_000), today.Tokens)
	assert.InDelta(t, inputTokenCost+outputTokenCost, today.Cost, 1e-9)
}
