package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("pipeline \"p\" {}\n"), 0o644))
	return path
}

func TestFindHCLFiles_SingleFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "one.hcl"))

	files, err := FindHCLFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindHCLFiles_WalksDirectoriesRecursively(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, filepath.Join(dir, "top.hcl"))
	nested := writeFile(t, filepath.Join(dir, "sub", "nested.hcl"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	files, err := FindHCLFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, files)
}

func TestFindHCLFiles_SkipsNonHCLFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "readme.md"))

	files, err := FindHCLFiles(path)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindHCLFiles_MissingPathSkipped(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "one.hcl"))

	files, err := FindHCLFiles(filepath.Join(t.TempDir(), "does-not-exist"), path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFindHCLFiles_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "one.hcl"))

	files, err := FindHCLFiles(path, path, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}
