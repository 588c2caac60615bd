package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 200, cfg.Bootstrap.Replicates)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
bootstrap:
  replicates: 500
  workers: 4
logging:
  level: debug
  development: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 500, cfg.Bootstrap.Replicates)
	assert.Equal(t, 4, cfg.Bootstrap.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\n"), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("MORTALITY_REPLICATES", "300")
	t.Setenv("MORTALITY_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 300, cfg.Bootstrap.Replicates)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvIgnoresBadReplicates(t *testing.T) {
	t.Setenv("MORTALITY_REPLICATES", "many")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Bootstrap.Replicates)
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [oops\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
