package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"001_entity_graph.sql", "001"},
		{"migrations/002_ledgers.sql", "002"},
		{"010_add_index_on_marks.sql", "010"},
		{"noprefix.sql", "noprefix.sql"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Version(tt.in))
		})
	}
}

func TestPendingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_ledgers.sql", "001_graph.sql", "README.md", "003_records.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "004_dir.sql"), 0o700))

	files, err := PendingFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_graph.sql", "002_ledgers.sql", "003_records.sql"}, files)
}

func TestPendingFilesRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"001_a.sql", "001_b.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	_, err := PendingFiles(dir)
	assert.ErrorContains(t, err, "share version 001")
}

func TestRepositoryMigrationsAreOrdered(t *testing.T) {
	files, err := PendingFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"001_entity_graph.sql", "002_ledgers.sql", "003_records.sql", "004_notices.sql"}, files)
}

func TestPendingFilesMissingDir(t *testing.T) {
	_, err := PendingFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
