package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	searched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS queries_searched_at ON queries(searched_at);
`

// Store keeps previously submitted queries in a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records query as searched at the given time. Blank queries and
// repeats of the most recent entry are skipped.
func (s *Store) Add(ctx context.Context, query string, at time.Time) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var last string
	err := s.db.QueryRowContext(ctx,
		`SELECT query FROM queries WHERE searched_at <= ? ORDER BY searched_at DESC, id DESC LIMIT 1`,
		at.UnixNano()).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read last query: %w", err)
	}
	if last == query {
		return nil
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (query, searched_at) VALUES (?, ?)`,
		query, at.UnixNano()); err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// Recent returns up to limit queries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM queries ORDER BY searched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Trim deletes everything but the newest keep entries
func (s *Store) Trim(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
DELETE FROM queries WHERE id NOT IN (
	SELECT id FROM queries ORDER BY searched_at DESC, id DESC LIMIT ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("trim history: %w", err)
	}
	return res.RowsAffected()
}
