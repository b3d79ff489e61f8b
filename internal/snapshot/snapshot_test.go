package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := New("1.0")
	snap.Metadata.TotalFiles = 1
	snap.Files["main.go"] = &FileData{
		ID:          1,
		FilePath:    "main.go",
		Language:    "go",
		ContentHash: "abc123",
		Blocks: []*CodeBlock{
			{ID: 1, Type: "function", Name: "main", StartLine: 1, EndLine: 3},
		},
	}

	name := FileName("demo", "20260101_000000")
	require.NoError(t, Write(dir, name, snap))

	got, err := Read(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "1.0", got.Metadata.ExtractorVersion)
	require.Contains(t, got.Files, "main.go")
	assert.Equal(t, "abc123", got.Files["main.go"].ContentHash)
	require.Len(t, got.Files["main.go"].Blocks, 1)
	assert.Equal(t, "main", got.Files["main.go"].Blocks[0].Name)
}

func TestWrite_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	snap := New("1.0")
	name := FileName("demo", "20260101_000000")
	require.NoError(t, Write(dir, name, snap))

	entries, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries, "a successful write must not leave a .tmp file behind")
}

func TestLatest_PicksLexicographicallyLastTimestamp(t *testing.T) {
	dir := t.TempDir()
	snap := New("1.0")
	require.NoError(t, Write(dir, FileName("demo", "20260101_000000"), snap))
	require.NoError(t, Write(dir, FileName("demo", "20260201_000000"), snap))
	require.NoError(t, Write(dir, FileName("other", "20260301_000000"), snap))

	path, ok := Latest(dir, "demo")
	require.True(t, ok)
	assert.Equal(t, FileName("demo", "20260201_000000"), filepath.Base(path))
}

func TestLatest_NoMatchingProject(t *testing.T) {
	dir := t.TempDir()
	_, ok := Latest(dir, "nonexistent")
	assert.False(t, ok)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
