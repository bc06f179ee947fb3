// Package store provides the persistence collaborator for the surrounding
// application: a SQLite-backed key-value store of named configuration blocks
// ("required life data", "optional life data", "loan data", ...). The
// projection engine itself never touches it; configurations are loaded
// before a projection call and saved after edits.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrBlockNotFound is returned when a named configuration block doesn't exist.
var ErrBlockNotFound = errors.New("configuration block not found")

// Store persists named configuration blocks as raw JSON payloads.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS config_blocks (
    name       TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// New opens (or creates) the store at the given path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveBlock upserts a named configuration block.
func (s *Store) SaveBlock(name string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO config_blocks (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save block %q: %w", name, err)
	}
	return nil
}

// LoadBlock fetches a named configuration block.
func (s *Store) LoadBlock(name string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM config_blocks WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrBlockNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load block %q: %w", name, err)
	}
	return []byte(payload), nil
}

// ListBlocks returns the stored block names, most recently updated first.
func (s *Store) ListBlocks() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM config_blocks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteBlock removes a named configuration block.
func (s *Store) DeleteBlock(name string) error {
	res, err := s.db.Exec(`DELETE FROM config_blocks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete block %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrBlockNotFound, name)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
