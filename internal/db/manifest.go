package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chriserin/stepgen/internal/generate"
)

// Manifest is the project's record of generated artifacts. Paths under root
// are stored relative to it; others are stored as given.
type Manifest struct {
	db    *sql.DB
	root  string
	runID string
}

func NewManifest(db *sql.DB, root string) *Manifest {
	return &Manifest{db: db, root: root}
}

func (m *Manifest) rel(path string) string {
	if m.root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

type Artifact struct {
	Path      string
	Role      generate.Role
	RunID     string
	CreatedAt string
	UpdatedAt string
}

type Run struct {
	ID        string
	StartedAt string
	Sources   int
	Features  int
}

// BeginRun records a new run; artifacts registered afterwards are stamped
// with its ID.
func (m *Manifest) BeginRun() (string, error) {
	id := uuid.NewString()
	if _, err := m.db.Exec(`INSERT INTO runs (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	m.runID = id
	return id, nil
}

// FinishRun stores the totals of the current run.
func (m *Manifest) FinishRun(sources, features int) error {
	if m.runID == "" {
		return nil
	}
	_, err := m.db.Exec(`UPDATE runs SET sources = ?, features = ? WHERE id = ?`, sources, features, m.runID)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", m.runID, err)
	}
	return nil
}

// Register adds path with role, or refreshes an existing entry. It reports
// whether the path was new.
func (m *Manifest) Register(path string, role generate.Role) (bool, error) {
	path = m.rel(path)
	runID := sql.NullString{String: m.runID, Valid: m.runID != ""}

	var id int64
	err := m.db.QueryRow(`SELECT id FROM artifacts WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = m.db.Exec(`INSERT INTO artifacts (path, role, run_id) VALUES (?, ?, ?)`, path, string(role), runID)
		if err != nil {
			return false, fmt.Errorf("inserting %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", path, err)
	}

	_, err = m.db.Exec(`UPDATE artifacts SET role = ?, run_id = COALESCE(?, run_id), updated_at = datetime('now') WHERE id = ?`,
		string(role), runID, id)
	if err != nil {
		return false, fmt.Errorf("updating %s: %w", path, err)
	}
	return false, nil
}

// Known reports whether path has been registered.
func (m *Manifest) Known(path string) (bool, error) {
	path = m.rel(path)
	var id int64
	err := m.db.QueryRow(`SELECT id FROM artifacts WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", path, err)
	}
	return true, nil
}

// Artifacts lists registered artifacts ordered by path. An empty role lists
// all of them.
func (m *Manifest) Artifacts(role generate.Role) ([]Artifact, error) {
	rows, err := m.db.Query(`
		SELECT path, role, COALESCE(run_id, ''), created_at, updated_at
		FROM artifacts
		WHERE ? = '' OR role = ?
		ORDER BY path
	`, string(role), string(role))
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		var r string
		if err := rows.Scan(&a.Path, &r, &a.RunID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a.Role = generate.Role(r)
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}
	return artifacts, nil
}

// Counts returns the number of registered artifacts per role.
func (m *Manifest) Counts() (map[generate.Role]int, error) {
	rows, err := m.db.Query(`SELECT role, COUNT(*) FROM artifacts GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("counting artifacts: %w", err)
	}
	defer rows.Close()

	counts := make(map[generate.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[generate.Role(role)] = n
	}
	return counts, rows.Err()
}

// LastRun returns the most recent run, if there has been one.
func (m *Manifest) LastRun() (Run, bool, error) {
	var r Run
	err := m.db.QueryRow(`
		SELECT id, started_at, sources, features
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&r.ID, &r.StartedAt, &r.Sources, &r.Features)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("querying last run: %w", err)
	}
	return r, true, nil
}
