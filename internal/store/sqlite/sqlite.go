// Package sqlite is a Store backed by a single-table SQLite database using the
// pure-Go modernc.org/sqlite driver. Keys iterate in first-insertion order.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kamusis/pixdex/internal/store"
	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// Store keeps keys in the kv table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.path = path
	return s, nil
}

// New wraps an open database and ensures the schema exists.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite store: db is nil")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("cannot create kv schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts key. An existing key keeps its position in iteration order.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", key, err)
	}
	return nil
}

// Read returns the value under key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", key, err)
	}
	return v, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cannot delete %s: %w", key, err)
	}
	return nil
}

// Keys lists keys in insertion order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("cannot list keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// IsEmpty reports whether the kv table has no rows.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		return false, fmt.Errorf("cannot count keys: %w", err)
	}
	return n == 0, nil
}

// Lock takes a writer lock on a sibling lock file. In-memory databases need
// none.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	if s.path == "" || s.path == ":memory:" {
		return func() {}, nil
	}
	return store.LockFile(ctx, s.path+".lock")
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
