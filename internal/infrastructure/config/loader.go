// Package config loads ~/.scrnstr/config.yaml.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/scrnstr/assets"
	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/pkg/filesystem"
	"github.com/doeshing/scrnstr/internal/ports"
)

// EnvConfigPath overrides the config location.
const EnvConfigPath = "SCRNSTR_CONFIG"

// FileLoader loads YAML configuration from ~/.scrnstr/config.yaml (overridable via SCRNSTR_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return expandPaths(hydrateDefaults(cfg)), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".scrnstr", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return err
	}
	return os.WriteFile(l.resolvePath(), raw, domain.SecureFilePermissions)
}

// Reset overwrites the config with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return domain.Config{}, err
	}
	return DefaultConfig(), nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// DefaultConfig returns the embedded defaults with paths expanded.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return expandPaths(hydrateDefaults(domain.Config{ConfigFormatVersion: "1"}))
	}
	return expandPaths(hydrateDefaults(cfg))
}

// DefaultPrompt is the classification instruction shipped with the binary.
func DefaultPrompt() string {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return ""
	}
	return cfg.Classifier.Prompt
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Capture.PathPattern == "" {
		cfg.Capture.PathPattern = domain.DefaultPathPattern
	}
	if cfg.Capture.PendingMarker == "" {
		cfg.Capture.PendingMarker = domain.DefaultPendingMarker
	}
	if cfg.Capture.DebounceMS == 0 {
		cfg.Capture.DebounceMS = int(domain.DefaultDebounce / time.Millisecond)
	}
	if cfg.Capture.SettleDelayMS == 0 {
		cfg.Capture.SettleDelayMS = int(domain.DefaultSettleDelay / time.Millisecond)
	}
	if len(cfg.Capture.WatchDirs) == 0 {
		cfg.Capture.WatchDirs = []string{"~/Pictures/Screenshots"}
	}

	if cfg.Classifier.Backend == "" {
		cfg.Classifier.Backend = domain.BackendGemini
	}
	if cfg.Classifier.TimeoutSeconds == 0 {
		cfg.Classifier.TimeoutSeconds = int(domain.DefaultClassifierTimeout / time.Second)
	}
	if cfg.Classifier.Backend == domain.BackendGemini {
		if cfg.Classifier.Model.ModelID == "" {
			cfg.Classifier.Model.ModelID = domain.DefaultGeminiModel
		}
		if cfg.Classifier.Model.AuthEnvVar == "" {
			cfg.Classifier.Model.AuthEnvVar = domain.DefaultGeminiKeyEnv
		}
	}
	if cfg.Classifier.Model.Name == "" {
		cfg.Classifier.Model.Name = cfg.Classifier.Backend
	}
	if cfg.Classifier.CacheEntries == 0 {
		cfg.Classifier.CacheEntries = domain.DefaultCacheEntries
	}
	if cfg.Classifier.CacheTTLMinutes == 0 {
		cfg.Classifier.CacheTTLMinutes = int(domain.DefaultCacheTTL / time.Minute)
	}
	if cfg.Classifier.Prompt == "" {
		cfg.Classifier.Prompt = DefaultPrompt()
	}

	if cfg.Feedback.AutoDismissMS == 0 {
		cfg.Feedback.AutoDismissMS = int(domain.DefaultAutoDismiss / time.Millisecond)
	}
	if cfg.Feedback.SwipeThreshold == 0 {
		cfg.Feedback.SwipeThreshold = domain.DefaultSwipeThreshold
	}

	if cfg.Actions.ServerURL == "" {
		cfg.Actions.ServerURL = domain.DefaultServerURL
	}
	if cfg.Actions.MapsURL == "" {
		cfg.Actions.MapsURL = domain.DefaultMapsURL
	}
	if cfg.Actions.BillsDir == "" {
		cfg.Actions.BillsDir = "~/Pictures/Bills"
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "~/.scrnstr"
	}
	return cfg
}

func expandPaths(cfg domain.Config) domain.Config {
	dirs := make([]string, 0, len(cfg.Capture.WatchDirs))
	for _, d := range cfg.Capture.WatchDirs {
		dirs = append(dirs, filesystem.ExpandPath(d))
	}
	cfg.Capture.WatchDirs = dirs
	cfg.Actions.BillsDir = filesystem.ExpandPath(cfg.Actions.BillsDir)
	cfg.Storage.DataDir = filesystem.ExpandPath(cfg.Storage.DataDir)
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
