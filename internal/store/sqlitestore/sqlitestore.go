// Package sqlitestore keeps slots in a SQLite key/value table, the local
// equivalent of a browser's localStorage.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
)`

// DB is an open database holding any number of slots.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table slots: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Slot returns a handle on the named slot.
func (d *DB) Slot(name string) *Slot {
	return &Slot{db: d.db, name: name}
}

// Keys lists stored slot names.
func (d *DB) Keys() ([]string, error) {
	rows, err := d.db.Query(`SELECT key FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

type Slot struct {
	db   *sql.DB
	name string
}

func (s *Slot) Name() string { return s.name }

func (s *Slot) Read() ([]byte, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, s.name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.name, err)
	}
	return []byte(v), nil
}

func (s *Slot) Write(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.name, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	return nil
}
