package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, runtime.NumCPU(), cfg.Resample.Workers)
	assert.Equal(t, 0.0, cfg.Resample.FillValue)
	assert.True(t, cfg.Resample.Progress)
	assert.Equal(t, 256, cfg.Plot.Colors)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "resample:\n  workers: 3\n  fillValue: -1.5\nplot:\n  logarithmic: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Resample.Workers)
	assert.Equal(t, -1.5, cfg.Resample.FillValue)
	assert.True(t, cfg.Plot.Logarithmic)

	// untouched values keep their defaults
	assert.True(t, cfg.Resample.Progress)
	assert.Equal(t, 16.0, cfg.Plot.Width)
	assert.Equal(t, "gas density", cfg.Output.Title)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "resample: [workers"},
		{"negative workers", "resample:\n  workers: -2\n"},
		{"zero width", "plot:\n  width: 0\n"},
		{"one color", "plot:\n  colors: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.yaml")

	cfg := DefaultConfig()
	cfg.Resample.Workers = 2
	cfg.Output.Title = "Milky Way gas"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fillValue:")
	assert.Contains(t, string(data), "logarithmic:")
}
