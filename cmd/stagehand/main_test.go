package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/internal/app"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name: "Switch with valid config",
			config: `version: "1"
tickInterval: 1ms
overlay:
  fadeIn: 0s
  fadeOut: 0s
`,
			args:         []string{"stagehand", "run", "switch=levels/a.txt", "preload=levels/b.txt"},
			expectedExit: 0,
		},
		{
			name:         "Missing resource",
			config:       "tickInterval: 1ms\n",
			args:         []string{"stagehand", "run", "switch=levels/missing.txt"},
			expectedExit: 1,
		},
		{
			name:         "Invalid config",
			config:       "maxInstanceCacheSize: 0\n",
			args:         []string{"stagehand", "run", "clear"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "stagehand.yaml"), []byte(tt.config), 0o600))
			require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "levels"), 0o750))
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "levels", "a.txt"), []byte("a"), 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "levels", "b.txt"), []byte("b"), 0o600))

			// Change to tmpDir for relative path resolution
			t.Chdir(tmpDir)

			os.Args = tt.args
			exitCode := run(func(a *app.App) {
				a.WithOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestRun_StoreInitError(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	// Create .stagehand as a file (not a directory) so the state file cannot be written
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".stagehand"), []byte("not a directory"), 0o600))

	os.Args = []string{"stagehand", "run", "clear"}
	assert.Equal(t, 1, run())
}
