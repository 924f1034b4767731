package domain

import "time"

// Config mirrors ~/.scrnstr/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Capture             CaptureSettings    `yaml:"capture"`
	Classifier          ClassifierSettings `yaml:"classifier"`
	Feedback            FeedbackSettings   `yaml:"feedback"`
	Actions             ActionSettings     `yaml:"actions"`
	Storage             StorageSettings    `yaml:"storage"`
}

// CaptureSettings configures the capture watcher and debounce policy.
type CaptureSettings struct {
	WatchDirs     []string `yaml:"watch_dirs"`
	PathPattern   string   `yaml:"path_pattern"`
	PendingMarker string   `yaml:"pending_marker"`
	DebounceMS    int      `yaml:"debounce_ms"`
	SettleDelayMS int      `yaml:"settle_delay_ms"`
}

// ClassifierSettings selects the model backend.
type ClassifierSettings struct {
	Backend        string          `yaml:"backend"`
	Model          ModelDefinition `yaml:"model"`
	TimeoutSeconds int             `yaml:"timeout"`
	Prompt         string          `yaml:"prompt,omitempty"`

	// CacheEntries bounds the result cache; a negative value disables it.
	CacheEntries    int `yaml:"cache_entries"`
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
}

// FeedbackSettings controls the overlay channel.
type FeedbackSettings struct {
	OverlayEnabled bool    `yaml:"overlay_enabled"`
	AutoDismissMS  int     `yaml:"auto_dismiss_ms"`
	SwipeThreshold float64 `yaml:"swipe_threshold"`
}

// ActionSettings configures handler side effects.
type ActionSettings struct {
	BillsDir          string   `yaml:"bills_dir"`
	ServerURL         string   `yaml:"server_url"`
	ShareContacts     []string `yaml:"share_contacts"`
	MapsURL           string   `yaml:"maps_url"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	Burst             int      `yaml:"burst"`
}

// StorageSettings locates local state.
type StorageSettings struct {
	DataDir string `yaml:"data_dir"`
}

// Debounce returns the debounce window.
func (c CaptureSettings) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SettleDelay returns the settle delay before re-resolving the capture.
func (c CaptureSettings) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// AutoDismiss returns the overlay auto-dismiss timeout.
func (f FeedbackSettings) AutoDismiss() time.Duration {
	return time.Duration(f.AutoDismissMS) * time.Millisecond
}

// CacheTTL returns how long a cached classification stays valid.
func (c ClassifierSettings) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Timeout returns the per-call classifier timeout.
func (c ClassifierSettings) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
