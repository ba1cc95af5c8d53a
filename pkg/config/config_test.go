package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig verifies the default file discovery suffixes
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "MTL.txt", cfg.Input.MetadataSuffix)
	assert.Equal(t, "TIF", cfg.Input.ImageSuffix)
	assert.False(t, cfg.Processing.StrictBands, "strict bands should be off by default")
	assert.False(t, cfg.Processing.Memoize, "memoization should be off by default")
	assert.Equal(t, "info", cfg.Output.LogLevel)
}

// TestLoadConfigMissingFile verifies that a missing file yields defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "MTL.txt", cfg.Input.MetadataSuffix)
}

// TestLoadConfigPartialOverride verifies that unspecified fields keep their defaults
func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landsatlst.yaml")
	content := "processing:\n  memoize: true\noutput:\n  previewDir: /tmp/previews\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Processing.Memoize)
	assert.Equal(t, "/tmp/previews", cfg.Output.PreviewDir)
	assert.Equal(t, "TIF", cfg.Input.ImageSuffix, "default image suffix should survive")
}

// TestLoadConfigInvalid verifies YAML and validation errors
func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("input: [unclosed"), 0644))
	_, err := LoadConfig(broken)
	assert.Error(t, err, "malformed YAML")

	empty := filepath.Join(dir, "empty-suffix.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("input:\n  imageSuffix: \"\"\n"), 0644))
	_, err = LoadConfig(empty)
	assert.Error(t, err, "empty image suffix")
}

// TestSaveAndReload verifies that a written default config loads back unchanged
func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "landsatlst.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), *cfg)
}
