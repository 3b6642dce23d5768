package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, 0, cfg.Output.Limit)
	assert.Empty(t, cfg.Datasets)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insightq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
output:
  format: csv
  limit: 10
datasets:
  - id: courses
    kind: courses
    path: data/courses.parquet
  - id: rooms
    kind: rooms
    path: data/rooms-*.json.gz
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 10, cfg.Output.Limit)
	assert.Equal(t, []DatasetConfig{
		{ID: "courses", Kind: "courses", Path: "data/courses.parquet"},
		{ID: "rooms", Kind: "rooms", Path: "data/rooms-*.json.gz"},
	}, cfg.Datasets)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INSIGHTQ_LOG_LEVEL", "error")
	t.Setenv("INSIGHTQ_OUTPUT_FORMAT", "jsonl")
	t.Setenv("INSIGHTQ_OUTPUT_LIMIT", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "jsonl", cfg.Output.Format)
	assert.Equal(t, 5, cfg.Output.Limit)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  limit: -1\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "incomplete.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datasets:\n  - id: courses\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
