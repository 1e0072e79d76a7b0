package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// withMigrations swaps All for the duration of a test.
func withMigrations(t *testing.T, migrations ...string) {
	t.Helper()
	orig := All
	All = migrations
	t.Cleanup(func() { All = orig })
}

func version(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&v))
	return v
}

func hasTable(db *sql.DB, name string) bool {
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&found)
	return err == nil
}

func TestMigrate_EmptyListLeavesVersionZero(t *testing.T) {
	withMigrations(t)
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	assert.True(t, hasTable(db, "schema_version"))
	assert.Equal(t, 0, version(t, db))
}

func TestMigrate_AppliesInOrderOnce(t *testing.T) {
	withMigrations(t,
		`CREATE TABLE one (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE two (id INTEGER PRIMARY KEY, one_id INTEGER REFERENCES one(id))`,
	)
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	assert.Equal(t, 2, version(t, db))
	assert.True(t, hasTable(db, "one"))
	assert.True(t, hasTable(db, "two"))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestMigrate_ResumesFromAppliedPrefix(t *testing.T) {
	withMigrations(t, `CREATE TABLE one (id INTEGER PRIMARY KEY)`)
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	All = append(All, `CREATE TABLE two (id INTEGER PRIMARY KEY)`)
	require.NoError(t, Migrate(db))

	assert.Equal(t, 2, version(t, db))
	assert.True(t, hasTable(db, "two"))
}

func TestMigrate_FailureKeepsEarlierMigrations(t *testing.T) {
	withMigrations(t,
		`CREATE TABLE good (id INTEGER PRIMARY KEY)`,
		`INVALID SQL STATEMENT`,
	)
	db := openTestDB(t)

	err := Migrate(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2 failed")
	assert.Equal(t, 1, version(t, db))
	assert.True(t, hasTable(db, "good"))
}

func TestMigrate_ManifestSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	assert.Equal(t, len(All), version(t, db))
	assert.True(t, hasTable(db, "runs"))
	assert.True(t, hasTable(db, "artifacts"))

	_, err := db.Exec(`INSERT INTO artifacts (path, role) VALUES ('Login.h', 'declaration')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO artifacts (path, role) VALUES ('Login.h', 'compile')`)
	assert.Error(t, err, "paths are unique")
}
