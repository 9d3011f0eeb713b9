// Package resultlog keeps an append-only log of drawing results with their
// capture timestamps. It is separate from the history archive: the archive
// stores whole sessions, this log stores individual result lines.
package resultlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one logged result.
type Entry struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recordedAt"`
	Result     string    `json:"result"`
}

// SQLiteLog implements the result log on SQLite.
type SQLiteLog struct {
	db   *sql.DB
	path string
}

// Open creates or opens the result log database at path. Use ":memory:" for
// an ephemeral log in tests.
func Open(path string) (*SQLiteLog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create result log directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result log database: %w", err)
	}
	l := &SQLiteLog{db: db, path: path}
	if err := l.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init result log schema: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		recorded_at TEXT NOT NULL,
		result TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_recorded_at ON results(recorded_at DESC);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append records one result with the current UTC timestamp.
func (l *SQLiteLog) Append(result string) (Entry, error) {
	entry := Entry{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		Result:     result,
	}
	_, err := l.db.Exec(
		`INSERT INTO results (id, recorded_at, result) VALUES (?, ?, ?)`,
		entry.ID, entry.RecordedAt.Format(time.RFC3339Nano), entry.Result,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append result: %w", err)
	}
	return entry, nil
}

// List returns entries newest-first. A limit of 0 returns everything.
func (l *SQLiteLog) List(limit int) ([]Entry, error) {
	query := `SELECT id, recorded_at, result FROM results ORDER BY recorded_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(&e.ID, &recordedAt, &e.Result); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		e.RecordedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of logged results.
func (l *SQLiteLog) Count() (int, error) {
	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
