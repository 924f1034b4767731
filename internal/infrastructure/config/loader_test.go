package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/assets"
	"github.com/doeshing/scrnstr/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, assets.DefaultConfigYAML, written)

	assert.Equal(t, domain.BackendGemini, cfg.Classifier.Backend)
	assert.Equal(t, domain.DefaultGeminiModel, cfg.Classifier.Model.ModelID)
	assert.Equal(t, 2000, cfg.Capture.DebounceMS)
	assert.Equal(t, 3000, cfg.Capture.SettleDelayMS)
	assert.Equal(t, 10000, cfg.Feedback.AutoDismissMS)
	assert.True(t, cfg.Feedback.OverlayEnabled)
	assert.True(t, strings.HasPrefix(cfg.Classifier.Prompt, "Analyze this screenshot"))
	assert.Contains(t, cfg.Classifier.Prompt, `"suggested_action"`)
	for _, dir := range cfg.Capture.WatchDirs {
		assert.False(t, strings.HasPrefix(dir, "~"), "watch dirs are expanded")
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadHydratesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capture:
  watch_dirs: [/tmp/shots]
  debounce_ms: 500
classifier:
  backend: http
  model:
    name: local
    endpoint: http://localhost:11434/v1/chat/completions
    model_id: llava
`), 0o600))

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/shots"}, cfg.Capture.WatchDirs)
	assert.Equal(t, 500, cfg.Capture.DebounceMS)
	assert.Equal(t, 3000, cfg.Capture.SettleDelayMS)
	assert.Equal(t, "local", cfg.Classifier.Model.Name)
	assert.Empty(t, cfg.Classifier.Model.AuthEnvVar, "http backends keep their own auth settings")
	assert.Equal(t, DefaultPrompt(), cfg.Classifier.Prompt)
	assert.Equal(t, domain.DefaultServerURL, cfg.Actions.ServerURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capture: [unterminated"), 0o600))
	_, err := NewFileLoader(path).Load(context.Background())
	assert.Error(t, err)
}

func TestPathFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(EnvConfigPath, path)
	assert.Equal(t, path, NewFileLoader("").Path())
	assert.Equal(t, "/explicit.yaml", NewFileLoader("/explicit.yaml").Path())
}

func TestSaveBackupReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg := DefaultConfig()
	cfg.Capture.DebounceMS = 42
	require.NoError(t, loader.Save(cfg))

	backup, err := loader.Backup()
	require.NoError(t, err)
	saved, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "debounce_ms: 42")

	reset, err := loader.Reset()
	require.NoError(t, err)
	assert.Equal(t, 2000, reset.Capture.DebounceMS)
	loaded, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, loaded.Capture.DebounceMS)
}
