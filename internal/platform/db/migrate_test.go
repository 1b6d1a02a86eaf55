package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"0002_indexes.sql": "CREATE INDEX idx ON t (a);",
		"0001_init.sql":    "CREATE TABLE t (a INT);",
		"notes.txt":        "ignored",
		"README.sql":       "ignored, no numeric prefix",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	require.Equal(t, 1, migrations[0].Version)
	require.Equal(t, "0001_init.sql", migrations[0].Name)
	require.Equal(t, 2, migrations[1].Version)
	require.Contains(t, migrations[0].SQL, "CREATE TABLE")
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	_, err := m.LoadMigrations()
	require.Error(t, err)
}
