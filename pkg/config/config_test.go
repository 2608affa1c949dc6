package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1.0, cfg.Alpha)
	assert.Equal(t, 30.0, cfg.Fps)
	assert.False(t, cfg.Reduce)
	assert.Equal(t, 0.05, cfg.PositionTolerance)
	assert.Equal(t, 0.00001, cfg.RotationTolerance)
	assert.Equal(t, 0, cfg.ReduceSpacing)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
alpha: 0.4
fps: 60
reduce: true
reduce_spacing: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Alpha)
	assert.Equal(t, 60.0, cfg.Fps)
	assert.True(t, cfg.Reduce)
	assert.Equal(t, 2, cfg.ReduceSpacing)

	// unset keys keep the defaults
	assert.Equal(t, 0.05, cfg.PositionTolerance)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "alpha: ["},
		{"alpha too high", "alpha: 1.5"},
		{"alpha zero", "alpha: 0"},
		{"negative fps", "fps: -30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
