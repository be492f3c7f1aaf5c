package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using pure-Go SQLite, one row per
// recorded tick keyed by its integer tick id.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed tick diagnostics
// store. Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	// Tick diagnostics are small, structured JSON blobs keyed by the
	// tick id itself — a range scan over tick_id is the query this
	// domain needs, not a generic key-value lookup or free-text search.
	schema := `
	CREATE TABLE IF NOT EXISTS tick_diagnostics (
		tick_id     INTEGER PRIMARY KEY,
		summary     BLOB NOT NULL,
		recorded_at TEXT NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// PutTick stores or overwrites tickID's summary JSON.
func (s *SQLiteStore) PutTick(ctx context.Context, tickID int, summaryJSON []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tick_diagnostics (tick_id, summary, recorded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tick_id) DO UPDATE SET
			summary = excluded.summary,
			recorded_at = excluded.recorded_at`,
		tickID, summaryJSON, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("put tick %d: %w", tickID, err)
	}
	return nil
}

// GetTick retrieves tickID's summary JSON, or nil if it was never
// recorded.
func (s *SQLiteStore) GetTick(ctx context.Context, tickID int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT summary FROM tick_diagnostics WHERE tick_id = ?", tickID,
	).Scan(&summary)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tick %d: %w", tickID, err)
	}
	return summary, nil
}

// ListTickIDs returns recorded tick ids at or above sinceTickID, in
// ascending order, capped at limit.
func (s *SQLiteStore) ListTickIDs(ctx context.Context, sinceTickID, limit int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT tick_id FROM tick_diagnostics WHERE tick_id >= ? ORDER BY tick_id LIMIT ?",
		sinceTickID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ticks since %d: %w", sinceTickID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountTicks returns the total number of recorded ticks.
func (s *SQLiteStore) CountTicks(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tick_diagnostics").Scan(&count)
	return count, err
}

// Close shuts down the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
