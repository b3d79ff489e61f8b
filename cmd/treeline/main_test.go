package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/treeline/internal/config"
	"github.com/jward/treeline/internal/engine"
	"github.com/jward/treeline/internal/store"
)

func TestOpenStore_CreatesParentDirAndMigrates(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "treeline.db")
	cfg := &config.Config{Database: config.Database{
		Path:       dbPath,
		BatchSize:  500,
		MaxRetries: 3,
		RetryDelay: "25ms",
	}}

	st, err := openStore(cfg)
	require.NoError(t, err)
	defer st.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "openStore must create the database file's parent directory")

	_, err = st.InsertProject(&store.Project{Name: "demo", Path: "/repo"})
	assert.NoError(t, err, "migrated schema must accept a project insert")
}

func TestPrintStats_TextFormat(t *testing.T) {
	flagFormat = "text"
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	stats := engine.Stats{FilesAdded: 2, FilesChanged: 1, RelationshipsAdded: 3}
	printStats(cmd, "index", "demo", stats, 10*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "index demo")
	assert.Contains(t, out, "+2/~1/-0 files")
}

func TestPrintStats_JSONFormat(t *testing.T) {
	flagFormat = "json"
	defer func() { flagFormat = "text" }()
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	stats := engine.Stats{FilesAdded: 5}
	printStats(cmd, "reindex", "demo", stats, 5*time.Millisecond)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "reindex", payload["operation"])
	assert.Equal(t, float64(5), payload["files_added"])
}
