package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, DefaultPath(), filepath.Join(".config", "vkine", "config.toml"))

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/vkine/config.toml", DefaultPath())
}

func TestDiscover_EnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[server]"), 0644))
	t.Setenv(EnvConfigPath, cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_EnvOverrideMissing(t *testing.T) {
	t.Setenv(EnvConfigPath, "/nonexistent/vkine.toml")

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfigPath)
}

func TestDiscover_WorkingDirectory(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]"), 0644))
	t.Chdir(dir)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "./config.toml", path)
}

func TestDiscover_NothingFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	t.Chdir(t.TempDir())

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config not found")
}
