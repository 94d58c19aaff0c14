package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/openclaw/clawmon/internal/events"
	"github.com/openclaw/clawmon/internal/scheduler"
	"github.com/openclaw/clawmon/internal/status"
	"github.com/openclaw/clawmon/internal/usage"
)

// componentLabels are the display names in report order.
var componentLabels = map[status.Component]string{
	status.ComponentWatchdog: "Watchdog",
	status.ComponentGateway:  "Gateway",
	status.ComponentPort:     "Port",
	status.ComponentTUI:      "TUI",
	status.ComponentLogs:     "Logs",
	status.ComponentUpdates:  "Updates",
}

// severityPaint returns the icon and color function for a severity tier.
func severityPaint(sev status.Severity) (string, func(a ...interface{}) string) {
	switch sev {
	case status.SeverityOK:
		return "●", color.New(color.FgGreen).SprintFunc()
	case status.SeverityWarning:
		return "⚠", color.New(color.FgYellow).SprintFunc()
	case status.SeverityError:
		return "●", color.New(color.FgRed).SprintFunc()
	default:
		return "○", color.New(color.FgHiBlack).SprintFunc()
	}
}

// RenderReport writes the classified component report.
func RenderReport(w io.Writer, snap scheduler.Snapshot) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "\n%s\n\n", cyan("=== OpenClaw Monitor ==="))

	for _, c := range status.Components {
		cs := snap.Report[c]
		icon, paint := severityPaint(cs.Severity)

		line := fmt.Sprintf("  %s %-10s %s", paint(icon), componentLabels[c], paint(humanState(cs.State)))
		if cs.Detail != "" {
			gray := color.New(color.FgHiBlack).SprintFunc()
			line += " " + gray(cs.Detail)
		}
		fmt.Fprintln(w, line)
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintf(w, "\n  %s\n\n", gray("polled "+snap.At.Format("2006-01-02 15:04:05")))
}

// humanState turns a snake_case state into display text.
func humanState(s status.ComponentState) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// RenderUsage writes today's ledger totals.
func RenderUsage(w io.Writer, record usage.Record) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "\n%s %s\n", yellow("Usage for"), record.Date)
	fmt.Fprintf(w, "  Tokens: %d\n", record.Tokens)
	fmt.Fprintf(w, "  Cost:   $%.4f\n", record.Cost)
	if len(record.ByModel) > 0 {
		fmt.Fprintln(w, "  By model:")
		for model, mu := range record.ByModel {
			fmt.Fprintf(w, "    %-40s %10d tokens  $%.4f\n", model, mu.Tokens, mu.Cost)
		}
	}
	fmt.Fprintln(w)
}

// RenderEvents writes recent events, newest first.
func RenderEvents(w io.Writer, evs []*events.MonitorEvent) {
	if len(evs) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Fprintf(w, "  %s\n", gray("No events recorded"))
		return
	}
	for _, ev := range evs {
		paint := color.New(color.FgHiBlack).SprintFunc()
		switch ev.Severity {
		case events.SeverityWarning:
			paint = color.New(color.FgYellow).SprintFunc()
		case events.SeverityError, events.SeverityCritical:
			paint = color.New(color.FgRed).SprintFunc()
		}
		component := ""
		if ev.Component != "" {
			component = " [" + ev.Component + "]"
		}
		fmt.Fprintf(w, "  %s %s%s %s\n",
			ev.Timestamp.Format("2006-01-02 15:04:05"),
			paint(string(ev.Severity)), component, ev.Message)
	}
}
