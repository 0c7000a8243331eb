package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Session.Placeholder)
	assert.Nil(t, cfg.Display.HistogramHeight)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[session]
placeholder = "?"
debounce-ms = 350
profile = "en"

[display]
histogram-height = 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Session.Placeholder)
	require.NotNil(t, cfg.Session.DebounceMs)
	require.NotNil(t, cfg.Session.Profile)
	require.NotNil(t, cfg.Display.HistogramHeight)
	assert.Equal(t, "?", *cfg.Session.Placeholder)
	assert.Equal(t, 350, *cfg.Session.DebounceMs)
	assert.Equal(t, "en", *cfg.Session.Profile)
	assert.Equal(t, 6, *cfg.Display.HistogramHeight)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[session]\nplaceholdr = \"?\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholdr")
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/cfg", "subcrack", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "subcrack", "subcrack.db"), DefaultDBPath())
}
