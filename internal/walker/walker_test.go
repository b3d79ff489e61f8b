package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestWalk_SkipsIgnoredDirsAndFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go":                 "package main",
		"node_modules/dep/dep.js": "module.exports = {}",
		".git/HEAD":               "ref: refs/heads/main",
		"vendor/lib/lib.go":       "package lib",
		"go.sum":                  "h1:abc=",
		"assets/logo.png":         "binarydata",
	})

	var got []string
	require.NoError(t, Walk(dir, func(path string) error {
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
		return nil
	}))
	sort.Strings(got)

	assert.Equal(t, []string{"main.go"}, got)
}

func TestWalk_FollowsSymlinkedDirectoryWithoutCycling(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"real/a.go": "package real",
	})
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")))
	// Cycle: link back to the tree root itself.
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "real", "cycle")))

	var got []string
	require.NoError(t, Walk(dir, func(path string) error {
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
		return nil
	}))

	assert.Contains(t, got, "real/a.go")
	assert.Contains(t, got, "link/a.go")
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText([]byte("package main\n\nfunc main() {}\n")))
	assert.False(t, IsText([]byte("\x00\x01binary")))
}

func TestIsText_LargeTextFile(t *testing.T) {
	content := make([]byte, 1024)
	for i := range content {
		content[i] = 'a'
	}
	assert.True(t, IsText(content))
}
