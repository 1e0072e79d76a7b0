package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepgen/internal/generate"
)

func openManifest(t *testing.T) *Manifest {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), ".stepgen", "stepgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewManifest(db, "")
}

func TestOpen_UsesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "stepgen.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestManifest_RegisterReportsNewPaths(t *testing.T) {
	m := openManifest(t)

	added, err := m.Register("features/Login.h", generate.RoleDeclaration)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.Register("features/Login.h", generate.RoleDeclaration)
	require.NoError(t, err)
	assert.False(t, added)

	artifacts, err := m.Artifacts("")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "features/Login.h", artifacts[0].Path)
}

func TestManifest_Known(t *testing.T) {
	m := openManifest(t)

	known, err := m.Known("Login_steps.yaml")
	require.NoError(t, err)
	assert.False(t, known)

	_, err = m.Register("Login_steps.yaml", generate.RoleCompanion)
	require.NoError(t, err)

	known, err = m.Known("Login_steps.yaml")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestManifest_ArtifactsByRole(t *testing.T) {
	m := openManifest(t)
	for path, role := range map[string]generate.Role{
		"b/Login.h":                  generate.RoleDeclaration,
		"a/Cart.h":                   generate.RoleDeclaration,
		"a/Cart_scenarios.cpp":       generate.RoleCompile,
		"a/Cart_stepDefinitions.cpp": generate.RoleCompile,
		"cart.feature":               generate.RoleSource,
	} {
		_, err := m.Register(path, role)
		require.NoError(t, err)
	}

	headers, err := m.Artifacts(generate.RoleDeclaration)
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, "a/Cart.h", headers[0].Path)
	assert.Equal(t, "b/Login.h", headers[1].Path)

	all, err := m.Artifacts("")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	counts, err := m.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[generate.RoleDeclaration])
	assert.Equal(t, 2, counts[generate.RoleCompile])
	assert.Equal(t, 1, counts[generate.RoleSource])
	assert.Equal(t, 0, counts[generate.RoleCompanion])
}

func TestManifest_RunsStampArtifacts(t *testing.T) {
	m := openManifest(t)

	_, ok, err := m.LastRun()
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := m.BeginRun()
	require.NoError(t, err)
	_, err = m.Register("Login.h", generate.RoleDeclaration)
	require.NoError(t, err)
	require.NoError(t, m.FinishRun(1, 1))

	second, err := m.BeginRun()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	_, err = m.Register("Login.h", generate.RoleDeclaration)
	require.NoError(t, err)
	require.NoError(t, m.FinishRun(2, 3))

	artifacts, err := m.Artifacts(generate.RoleDeclaration)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, second, artifacts[0].RunID)

	run, ok, err := m.LastRun()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, run.ID)
	assert.Equal(t, 2, run.Sources)
	assert.Equal(t, 3, run.Features)
}

func TestManifest_RegisterWithoutRunKeepsRunID(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "stepgen.db"))
	require.NoError(t, err)
	defer db.Close()

	m := NewManifest(db, "")
	id, err := m.BeginRun()
	require.NoError(t, err)
	_, err = m.Register("Login.h", generate.RoleDeclaration)
	require.NoError(t, err)

	_, err = NewManifest(db, "").Register("Login.h", generate.RoleDeclaration)
	require.NoError(t, err)

	artifacts, err := m.Artifacts("")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, id, artifacts[0].RunID)
}

func TestManifest_StoresPathsRelativeToRoot(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "stepgen.db"))
	require.NoError(t, err)
	defer db.Close()

	root := filepath.Join(string(filepath.Separator), "work", "project")
	m := NewManifest(db, root)

	_, err = m.Register(filepath.Join(root, "features", "Login.h"), generate.RoleDeclaration)
	require.NoError(t, err)
	_, err = m.Register(filepath.Join(string(filepath.Separator), "elsewhere", "Cart.h"), generate.RoleDeclaration)
	require.NoError(t, err)

	known, err := m.Known("features/Login.h")
	require.NoError(t, err)
	assert.True(t, known)

	artifacts, err := m.Artifacts(generate.RoleDeclaration)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "/elsewhere/Cart.h", filepath.FromSlash(artifacts[0].Path))
	assert.Equal(t, "features/Login.h", artifacts[1].Path)
}
