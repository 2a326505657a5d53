// Package store holds the persistence slots behind the translation history: a
// sqlite-backed key/value table and a plain JSON file written atomically.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- slots holds whole serialized documents addressed by a fixed name
	CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored value for name. A missing row yields nil, false.
func (s *Store) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *Store) Put(ctx context.Context, name string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO slots (name, value, updated_at) VALUES (?, ?, ?)`,
		name, string(value), time.Now())
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Slot binds one named row of the store.
func (s *Store) Slot(name string) *SQLiteSlot {
	return &SQLiteSlot{store: s, name: name}
}

type SQLiteSlot struct {
	store *Store
	name  string
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	data, _, err := s.store.Get(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", s.name, err)
	}
	return data, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, data []byte) error {
	if err := s.store.Put(ctx, s.name, data); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.name, err)
	}
	return nil
}
