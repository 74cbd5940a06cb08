package db

import (
	"database/sql"
	"fmt"
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  api_key TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS hosts (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  api_key TEXT NOT NULL UNIQUE,
  allowed INTEGER NOT NULL DEFAULT 0,
  blocked INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
  id INTEGER PRIMARY KEY,
  type TEXT NOT NULL,
  action TEXT NOT NULL,
  host TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS counters (
  host TEXT PRIMARY KEY,
  allowed INTEGER NOT NULL DEFAULT 0,
  blocked INTEGER NOT NULL DEFAULT 0
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: hosts report their last config fetch
	exists, err := hasColumn(db, "hosts", "last_seen")
	if err != nil {
		return fmt.Errorf("check last_seen column: %w", err)
	}
	if !exists {
		if _, err := db.Exec(`ALTER TABLE hosts ADD COLUMN last_seen TEXT`); err != nil {
			return fmt.Errorf("add last_seen column: %w", err)
		}
	}

	// Migration 2: indexes backing the top-N analytics queries
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_counters_blocked ON counters(blocked DESC, host)`); err != nil {
		return fmt.Errorf("create idx_counters_blocked: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_counters_allowed ON counters(allowed DESC, host)`); err != nil {
		return fmt.Errorf("create idx_counters_allowed: %w", err)
	}

	return nil
}

func hasColumn(db *sql.DB, table string, column string) (bool, error) {
	var count int
	if err := db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?`, table),
		column,
	).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
