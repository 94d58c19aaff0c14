// Package storage persists the monitor's event log in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openclaw/clawmon/internal/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS monitor_events (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	component TEXT NOT NULL DEFAULT '',
	severity  TEXT NOT NULL,
	message   TEXT NOT NULL,
	data      TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_monitor_events_timestamp ON monitor_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_monitor_events_type ON monitor_events(type);
`

// SQLiteStore implements events.Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements events.Store.
var _ events.Store = (*SQLiteStore)(nil)

// New opens (or creates) the event database at path.
func New(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// WAL mode keeps the watch loop's writes from blocking readers.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append stores a new event.
func (s *SQLiteStore) Append(ctx context.Context, ev *events.MonitorEvent) error {
	dataJSON, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	query := `
		INSERT INTO monitor_events (id, type, timestamp, component, severity, message, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		ev.ID, ev.Type, ev.Timestamp, ev.Component, ev.Severity, ev.Message, string(dataJSON))
	if err != nil {
		return fmt.Errorf("failed to store event (type=%s): %w", ev.Type, err)
	}
	return nil
}

// Recent returns the most recent events, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*events.MonitorEvent, error) {
	return s.Query(ctx, events.Filter{Limit: limit})
}

// Query returns events matching the filter, newest first.
func (s *SQLiteStore) Query(ctx context.Context, filter events.Filter) ([]*events.MonitorEvent, error) {
	query := `
		SELECT id, type, timestamp, component, severity, message, data
		FROM monitor_events
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.Component != "" {
		query += " AND component = ?"
		args = append(args, filter.Component)
	}
	if filter.Severity != "" {
		query += " AND severity = ?"
		args = append(args, filter.Severity)
	}
	if !filter.After.IsZero() {
		query += " AND timestamp > ?"
		args = append(args, filter.After)
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Prune deletes events older than the cutoff, returning the count removed.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM monitor_events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned events: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanEvents converts result rows into MonitorEvent structs.
func scanEvents(rows *sql.Rows) ([]*events.MonitorEvent, error) {
	var result []*events.MonitorEvent
	for rows.Next() {
		var ev events.MonitorEvent
		var dataJSON string

		err := rows.Scan(&ev.ID, &ev.Type, &ev.Timestamp, &ev.Component,
			&ev.Severity, &ev.Message, &dataJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if dataJSON != "" && dataJSON != "{}" {
			if err := json.Unmarshal([]byte(dataJSON), &ev.Data); err != nil {
				return nil, fmt.Errorf("failed to parse event data: %w", err)
			}
		}
		result = append(result, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return result, nil
}
