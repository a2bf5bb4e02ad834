package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "memorial.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data", cfg.Server.DataDir)
	assert.Equal(t, 50_000, cfg.Build.SampleSize)
	assert.Equal(t, int64(42), cfg.Build.Seed)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memorial.yaml")
	raw := `
server:
  addr: ":9090"
  data_dir: /var/lib/memorial
build:
  input: /srv/cards.csv
  sample_size: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/memorial", cfg.Server.DataDir)
	assert.Equal(t, "/srv/cards.csv", cfg.Build.Input)
	assert.Equal(t, 1000, cfg.Build.SampleSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, int64(42), cfg.Build.Seed)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memorial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [broken"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
