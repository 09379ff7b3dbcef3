// Package database provides SQLite access to the export database: the queue
// tables holding archival work and the archive_errors table.
package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// schema creates the tables the archiver writes to. The queue tables are
// normally created by the CSV import; CREATE IF NOT EXISTS keeps migrate
// idempotent either way.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS post_votes (
		id        TEXT PRIMARY KEY,
		permalink TEXT NOT NULL,
		direction TEXT,
		archived  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS saved_posts (
		id        TEXT PRIMARY KEY,
		permalink TEXT NOT NULL,
		archived  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS archive_errors (
		id         TEXT PRIMARY KEY,
		permalink  TEXT NOT NULL,
		table_name TEXT NOT NULL,
		error      TEXT NOT NULL,
		link       TEXT
	)`,
}

// Open connects to the SQLite database at path.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to database %s: %w", path, err)
	}

	// SQLite allows a single writer; more connections only add lock
	// contention for a sequential pipeline.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Migrate creates the archiver tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
