// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the payload in a single-row key/value table inside a
// SQLite database. SQLite's journaling gives the same torn-write safety as
// the atomic file rename, with room to grow into per-session rows later.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

const slotSchema = `
CREATE TABLE IF NOT EXISTS slots (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// NewSQLiteSlot opens (creating if needed) the database at path and prepares
// the slot with the given key.
func NewSQLiteSlot(path, key string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(slotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteSlot{db: db, key: key}, nil
}

// Get reads the stored payload. A missing row means the slot is empty.
func (s *SQLiteSlot) Get() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot row: %w", err)
	}
	return data, nil
}

// Set replaces the stored payload.
func (s *SQLiteSlot) Set(data []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO slots (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		s.key, data,
	)
	if err != nil {
		return fmt.Errorf("write slot row: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
