// ABOUTME: SQLite-backed snapshotter storing the whole document in one row.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSnapshot keeps the encoded snapshot in a single-row table.
// Each Write replaces the row inside SQLite's own transaction.
type SQLiteSnapshot struct {
	db     *sql.DB
	dbPath string
}

// Compile-time check that SQLiteSnapshot implements Snapshotter.
var _ Snapshotter = (*SQLiteSnapshot)(nil)

// OpenSQLiteSnapshot opens or creates the database at dbPath.
func OpenSQLiteSnapshot(dbPath string) (*SQLiteSnapshot, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteSnapshot{db: db, dbPath: dbPath}

	if err := s.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return s, nil
}

// Location returns the database path.
func (s *SQLiteSnapshot) Location() string {
	return s.dbPath
}

// Read returns the stored snapshot payload.
func (s *SQLiteSnapshot) Read() ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM snapshot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return payload, nil
}

// Write replaces the stored snapshot payload.
func (s *SQLiteSnapshot) Write(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO snapshot (id, payload, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteSnapshot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSnapshot) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (s *SQLiteSnapshot) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload BLOB NOT NULL,
		saved_at TEXT NOT NULL
	);
	`)
	return err
}
