package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prajithkb/metro/internal/adapters/config"
	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "platforms: [ios, android]\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, []string{"ios", "android"}, cfg.Platforms)
	// The dev server defaults: dev on, minify off.
	assert.True(t, cfg.Dev)
	assert.False(t, cfg.Minify)
	assert.Empty(t, cfg.Overrides)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
dev: false
minify: true
entries:
  - file: entry.js
    dev: true
    minify: false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Dev)
	assert.True(t, cfg.Minify)
	require.Len(t, cfg.Overrides, 1)
	assert.Equal(t, "entry.js", cfg.Overrides[0].File)
	require.NotNil(t, cfg.Overrides[0].Dev)
	assert.True(t, *cfg.Overrides[0].Dev)
}

func TestLoad_ParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "platforms: [unterminated\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_EntryMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "entries:\n  - dev: true\n")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestFileConfigLoader_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "platforms: [ios]\n")

	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	loader := &config.FileConfigLoader{}
	cfg, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
}

func TestFileConfigLoader_NotFound(t *testing.T) {
	loader := &config.FileConfigLoader{Filename: "definitely-missing.yaml"}

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}
