package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore wraps a local SQLite database.
type SQLiteStore struct {
	sqlStore
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// :memory: databases are per-connection
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	return &SQLiteStore{sqlStore{conn: conn, rebind: questionMarks}}, nil
}

// DatabaseType returns the database backend name.
func (db *SQLiteStore) DatabaseType() string {
	return "SQLite"
}

func (db *SQLiteStore) InitSchema(ctx context.Context) error {
	return db.createTables(ctx, `
	CREATE TABLE IF NOT EXISTS catalog (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		year INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		genres TEXT NOT NULL DEFAULT '[]',
		countries TEXT NOT NULL DEFAULT '[]',
		imdb_rating REAL,
		kinopoisk_rating REAL,
		plot TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS ratings (
		content_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		content_type TEXT NOT NULL,
		score INTEGER NOT NULL CHECK (score >= 1 AND score <= 10),
		rated_at TEXT NOT NULL
	)`)
}
