package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteReplayLog implements ReplayLog using SQLite.
type SQLiteReplayLog struct {
	db *sql.DB
}

// NewSQLiteReplayLog opens (or creates) the replay log database.
func NewSQLiteReplayLog(dsn string) (*SQLiteReplayLog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log := &SQLiteReplayLog{db: db}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return log, nil
}

// migrate runs database migrations.
func (l *SQLiteReplayLog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS served_responses (
			id TEXT PRIMARY KEY,
			completion_id TEXT NOT NULL,
			event_kind TEXT NOT NULL,
			streamed INTEGER NOT NULL DEFAULT 0,
			finish_reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_served_responses_created_at
			ON served_responses(created_at)`,
	}

	for _, m := range migrations {
		if _, err := l.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// RecordServed inserts one served response. An empty ID is filled in.
func (l *SQLiteReplayLog) RecordServed(ctx context.Context, served *ServedResponse) error {
	if served.ID == "" {
		served.ID = "srv_" + uuid.New().String()[:8]
	}
	if served.CreatedAt.IsZero() {
		served.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO served_responses (id, completion_id, event_kind, streamed, finish_reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		served.ID, served.CompletionID, served.EventKind, served.Streamed, served.FinishReason, served.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert served response: %w", err)
	}
	return nil
}

// ListServed returns all served responses in insertion order.
func (l *SQLiteReplayLog) ListServed(ctx context.Context) ([]*ServedResponse, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, completion_id, event_kind, streamed, finish_reason, created_at
		 FROM served_responses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query served responses: %w", err)
	}
	defer rows.Close()

	var out []*ServedResponse
	for rows.Next() {
		var s ServedResponse
		if err := rows.Scan(&s.ID, &s.CompletionID, &s.EventKind, &s.Streamed, &s.FinishReason, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan served response: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (l *SQLiteReplayLog) Close() error {
	return l.db.Close()
}
