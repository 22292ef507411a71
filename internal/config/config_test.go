package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "arbor.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "cascade", cfg.OrphanPolicy)
	assert.Empty(t, cfg.Redis.Address)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.yaml")
	data := `
listen: ":9090"
log_level: debug
orphan_policy: reparent
redis:
  address: "localhost:6379"
  db: 2
  key: "outline:facts"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "reparent", cfg.OrphanPolicy)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "outline:facts", cfg.Redis.Key)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.json")
	data := `{"listen": ":7070", "log_level": "warn"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_RejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orphan_policy: shred\n"), 0o644))

	_, err := config.Load(path)
	assert.ErrorContains(t, err, "orphan_policy")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
