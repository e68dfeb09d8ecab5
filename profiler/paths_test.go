package profiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0644))
	}
}

func TestResolveFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.csv", "a.csv", "notes.txt", "nested/c.csv")

	files, err := ResolveFiles([]string{filepath.Join(dir, "*.csv")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, files)

	files, err = ResolveFiles([]string{filepath.Join(dir, "**", "*.csv")}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestResolveFilesKeepsPatternOrderAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.csv", "b.csv")

	files, err := ResolveFiles([]string{
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "*.csv"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.csv"), filepath.Join(dir, "a.csv")}, files)
}

func TestResolveFilesErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveFiles([]string{filepath.Join(dir, "missing.csv")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ResolveFiles([]string{dir}, nil)
	assert.Error(t, err)

	_, err = ResolveFiles([]string{filepath.Join(dir, "*.csv")}, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = ResolveFiles(nil, nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}
