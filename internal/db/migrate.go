package db

import (
	"database/sql"
	"fmt"
)

// All is the ordered manifest schema. Append only; existing databases have
// applied a prefix of it.
var All = []string{
	`CREATE TABLE runs (
		id         TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL DEFAULT (datetime('now')),
		sources    INTEGER NOT NULL DEFAULT 0,
		features   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE artifacts (
		id         INTEGER PRIMARY KEY,
		path       TEXT UNIQUE NOT NULL,
		role       TEXT NOT NULL,
		run_id     TEXT REFERENCES runs(id),
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX artifacts_role ON artifacts(role)`,
}

// Migrate brings db up to len(All). The applied count lives in the single
// row of schema_version; each migration commits together with its bump.
func Migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for i := current; i < len(All); i++ {
		if err := step(db, i+1, All[i]); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}
	_, err := db.Exec(`INSERT INTO schema_version (version) SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM schema_version)`)
	if err != nil {
		return 0, fmt.Errorf("initializing schema version: %w", err)
	}

	var version int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func step(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, version); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", version, err)
	}
	return tx.Commit()
}
