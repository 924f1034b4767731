package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Capture defaults
const (
	DefaultDebounce      = 2000 * time.Millisecond
	DefaultSettleDelay   = 3000 * time.Millisecond
	DefaultPathPattern   = "screenshot"
	DefaultPendingMarker = ".pending"
)

// Feedback defaults
const (
	DefaultAutoDismiss    = 10 * time.Second
	DefaultSwipeThreshold = 80.0
	// AnalysisNotificationID is the fixed identifier shared by the
	// analyzing indicator and the result summary.
	AnalysisNotificationID = 2
)

// History constants
const (
	// HistoryCapacity is the number of intercept records retained.
	HistoryCapacity = 3
	// HistoryKey is the fixed key the history list is stored under.
	HistoryKey = "recent_intercepts"
	// RecentCategoryWindow marks a category as recently seen.
	RecentCategoryWindow = 5 * time.Minute
)

// Model configuration constants
const (
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultGeminiKeyEnv      = "GEMINI_API_KEY"
	DefaultClassifierTimeout = 60 * time.Second
	DefaultHTTPClientTimeout = 60 * time.Second
)

// Classification cache defaults
const (
	DefaultCacheEntries = 50
	DefaultCacheTTL     = 24 * time.Hour
)

// Action constants
const (
	DefaultEventDuration = 2 * time.Hour
	DefaultServerURL     = "http://localhost:3000"
	DefaultMapsURL       = "https://www.google.com/maps/search/?api=1&query=%s"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// BillFolderFormat names the dated bill folder (year-month).
	BillFolderFormat = "2006-01"
)
