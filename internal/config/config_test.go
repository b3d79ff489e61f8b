package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsExpandedDefaults(t *testing.T) {
	t.Setenv(envVar, filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".treeline", "treeline.db"), cfg.Database.Path)
	assert.Equal(t, 500, cfg.Database.BatchSize)
	assert.Equal(t, 512, cfg.Embedding.MaxTokens)
}

func TestLoad_ParsesPresentFileAndExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: "~/custom/treeline.db"
  batch_size: 100
  max_retries: 5
  retry_delay: 50ms
storage:
  data_dir: "~/custom/data"
embedding:
  model_path: "~/models/embed.bin"
  max_tokens: 256
`), 0o644))
	t.Setenv(envVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom", "treeline.db"), cfg.Database.Path)
	assert.Equal(t, 100, cfg.Database.BatchSize)
	assert.Equal(t, filepath.Join(home, "custom", "data"), cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(home, "models", "embed.bin"), cfg.Embedding.ModelPath)
	assert.Equal(t, 256, cfg.Embedding.MaxTokens)
}

func TestRetryDelayDuration_FallsBackOnMalformed(t *testing.T) {
	d := Database{RetryDelay: "not-a-duration"}
	assert.Equal(t, int64(25000000), d.RetryDelayDuration().Nanoseconds())
}

func TestRetryDelayDuration_ParsesValid(t *testing.T) {
	d := Database{RetryDelay: "100ms"}
	assert.Equal(t, int64(100000000), d.RetryDelayDuration().Nanoseconds())
}

func TestExpandHome_LeavesAbsolutePathAlone(t *testing.T) {
	got, err := expandHome("/var/lib/treeline")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/treeline", got)
}

func TestExpandHome_BareTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := expandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}
