// Package usage keeps the daily token and cost ledger. The ledger tracks
// the current calendar day only; yesterday's numbers are discarded on load
// and on the first write of a new day.
package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/clawmon/internal/config"
	"github.com/openclaw/clawmon/internal/events"
)

// dateLayout is the stored day format.
const dateLayout = "2006-01-02"

// ModelUsage is the per-model slice of the day's totals.
type ModelUsage struct {
	Tokens int64   `json:"tokens"`
	Cost   float64 `json:"cost"`
}

// Record is the on-disk and in-memory daily ledger state.
type Record struct {
	// Date is the calendar day the totals belong to.
	Date string `json:"date"`
	// Tokens is the day's total token count.
	Tokens int64 `json:"tokens"`
	// Cost is the day's total cost in USD.
	Cost float64 `json:"cost"`
	// ByModel breaks the totals down per model ID.
	ByModel map[string]ModelUsage `json:"by_model"`
}

// Ledger accumulates daily usage and persists every change immediately.
// Safe for concurrent use.
type Ledger struct {
	mu   sync.Mutex
	path string
	rec  *events.Recorder
	now  func() time.Time

	// highCostThreshold emits a one-shot warning event when the day's
	// cost crosses it. Zero disables the advisory.
	highCostThreshold float64
	highCostWarned    bool

	current Record
}

// NewLedger loads the ledger from path. A record for a day other than
// today is discarded, matching the daily reset semantics. Absent and
// corrupt files both start empty; corrupt is logged distinctly.
func NewLedger(path string, highCostThreshold float64, rec *events.Recorder) *Ledger {
	if rec == nil {
		rec = events.NewRecorder(nil)
	}
	l := &Ledger{
		path:              path,
		rec:               rec,
		now:               time.Now,
		highCostThreshold: highCostThreshold,
	}

	var stored Record
	res := loadRecord(path, &stored)
	switch res.Source {
	case config.SourceCorrupt:
		log.Warn().Err(res.Err).Str("path", path).Msg("usage ledger corrupt, starting empty")
	case config.SourceLoaded:
		if stored.Date == l.today() {
			l.current = stored
		}
	}
	if l.current.ByModel == nil {
		l.current = emptyRecord(l.today())
	}
	return l
}

// AddUsage adds tokens and cost under model and persists the new totals.
// Crossing into a new day discards the old totals first.
func (l *Ledger) AddUsage(ctx context.Context, tokens int64, cost float64, model string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollDayLocked()

	l.current.Tokens += tokens
	l.current.Cost += cost
	mu := l.current.ByModel[model]
	mu.Tokens += tokens
	mu.Cost += cost
	l.current.ByModel[model] = mu

	l.persistLocked()

	l.rec.Record(ctx, events.New(events.EventTypeUsageRecorded, events.SeverityInfo,
		fmt.Sprintf("recorded %d tokens ($%.4f) for %s", tokens, cost, model)).WithData(map[string]interface{}{
		"model":      model,
		"tokens":     tokens,
		"cost":       cost,
		"day_tokens": l.current.Tokens,
		"day_cost":   l.current.Cost,
	}))

	if l.highCostThreshold > 0 && !l.highCostWarned && l.current.Cost >= l.highCostThreshold {
		l.highCostWarned = true
		l.rec.Recordf(ctx, events.EventTypeHighCost, events.SeverityWarning,
			fmt.Sprintf("daily cost $%.2f crossed threshold $%.2f", l.current.Cost, l.highCostThreshold))
	}
}

// Reset zeroes today's totals and persists the empty record.
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = emptyRecord(l.today())
	l.highCostWarned = false
	l.persistLocked()
	l.rec.Recordf(ctx, events.EventTypeUsageReset, events.SeverityInfo, "usage ledger reset")
}

// Today returns a copy of today's totals, rolling the day first.
func (l *Ledger) Today() Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollDayLocked()

	out := l.current
	out.ByModel = make(map[string]ModelUsage, len(l.current.ByModel))
	for k, v := range l.current.ByModel {
		out.ByModel[k] = v
	}
	return out
}

// anthropic Messages pricing per 1M tokens, used when direct API calls
// report raw token counts.
const (
	inputTokenCost  = 3.00
	outputTokenCost = 15.00
)

// RecordUsage accepts raw token counts from a direct API call, converts
// them to cost at list price, and books them. Satisfies ai.UsageRecorder.
func (l *Ledger) RecordUsage(model string, inputTokens, outputTokens int64) {
	cost := float64(inputTokens)*inputTokenCost/1_000_000 +
		float64(outputTokens)*outputTokenCost/1_000_000
	l.AddUsage(context.Background(), inputTokens+outputTokens, cost, model)
}

// rollDayLocked discards the totals when the calendar day has changed.
func (l *Ledger) rollDayLocked() {
	today := l.today()
	if l.current.Date != today {
		l.current = emptyRecord(today)
		l.highCostWarned = false
	}
}

// persistLocked writes the whole record out. Failure is logged and
// swallowed; the in-memory totals stay authoritative for this process.
func (l *Ledger) persistLocked() {
	if err := saveRecord(l.path, &l.current); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("failed to persist usage ledger")
	}
}

func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}

func emptyRecord(date string) Record {
	return Record{Date: date, ByModel: make(map[string]ModelUsage)}
}
