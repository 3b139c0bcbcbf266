package blueprint

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeBlueprintFiles(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module omicspipeline\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stacks"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stacks", "pipeline.go"), []byte("package stacks\n"), 0o644))
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestZipDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBlueprintFiles(t, dir)

	require.NoError(t, ZipDirectory(dir))

	names := archiveNames(t, filepath.Join(dir, ArchiveName))
	assert.ElementsMatch(t, []string{"go.mod", "stacks/pipeline.go"}, names)
}

func TestZipDirectoryExcludesItself(t *testing.T) {
	dir := t.TempDir()
	writeBlueprintFiles(t, dir)

	require.NoError(t, ZipDirectory(dir))
	// Package again over the previous archive.
	require.NoError(t, ZipDirectory(dir))

	names := archiveNames(t, filepath.Join(dir, ArchiveName))
	assert.NotContains(t, names, ArchiveName)
	assert.Len(t, names, 2)
}

func TestCleanupArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ArchiveName)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	CleanupArchive(dir, zap.NewNop())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupArchiveAbsentIsHarmless(t *testing.T) {
	assert.NotPanics(t, func() {
		CleanupArchive(t.TempDir(), zap.NewNop())
	})
}
