package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the version recorded in PRAGMA user_version once every
// migration below has been applied.
const SchemaVersion = 3

// migrations holds the schema steps in version order. Step i brings the
// database to version i+1. Steps are additive and idempotent so that a
// partially upgraded file can be migrated again safely.
var migrations = [][]string{
	// Version 1: item collection with its secondary indexes.
	{
		`CREATE TABLE IF NOT EXISTS items (
		    id              TEXT PRIMARY KEY,
		    title           TEXT NOT NULL,
		    description     TEXT NOT NULL DEFAULT '',
		    location        TEXT NOT NULL DEFAULT '',
		    date            TEXT NOT NULL,
		    status          TEXT NOT NULL CHECK (status IN ('lost', 'found')),
		    category        TEXT NOT NULL DEFAULT '',
		    tracking_status TEXT NOT NULL DEFAULT '' CHECK (tracking_status IN ('', 'Open', 'In Progress', 'Resolved')),
		    comments        TEXT NOT NULL DEFAULT '[]',
		    contact_name    TEXT NOT NULL DEFAULT '',
		    contact_phone   TEXT NOT NULL DEFAULT '',
		    contact_email   TEXT NOT NULL DEFAULT '',
		    image           TEXT NOT NULL DEFAULT '',
		    reported_by     TEXT NOT NULL DEFAULT '',
		    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_items_tracking_status ON items(tracking_status)`,
	},
	// Version 2: image collection, keyed by the owning item's id. There is
	// deliberately no foreign key: images are written before their item.
	{
		`CREATE TABLE IF NOT EXISTS images (
		    id   TEXT PRIMARY KEY,
		    data TEXT NOT NULL
		)`,
	},
	// Version 3: users with a unique email index, plus the key/value
	// settings table and token revocation list used by sessions.
	{
		`CREATE TABLE IF NOT EXISTS users (
		    id            TEXT PRIMARY KEY,
		    first_name    TEXT NOT NULL,
		    last_name     TEXT NOT NULL,
		    email         TEXT NOT NULL,
		    password_hash TEXT NOT NULL,
		    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE TABLE IF NOT EXISTS settings (
		    key   TEXT PRIMARY KEY,
		    value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS revoked_tokens (
		    jti        TEXT PRIMARY KEY,
		    expires_at DATETIME NOT NULL
		)`,
	},
}

// Migrate brings the database schema up to SchemaVersion.
func Migrate(db *sql.DB) error {
	current, err := Version(db)
	if err != nil {
		return err
	}

	for v := current; v < len(migrations); v++ {
		for i, stmt := range migrations[v] {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("running migration %d.%d: %w", v+1, i+1, err)
			}
		}
		// PRAGMA does not accept bound parameters.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("recording schema version %d: %w", v+1, err)
		}
	}

	return nil
}

// Version returns the schema version recorded in the database file.
func Version(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
