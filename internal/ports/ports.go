// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The core (capture orchestration, feedback sessions,
// action dispatch, history) depends only on these abstractions, so every
// surface, model and system service can be replaced by a headless double.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Classifier, OverlaySurface)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/scrnstr/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.scrnstr/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Classifier turns image bytes or text into a classification result.
// Any failure (transport, model, response shape) is returned as an error
// wrapping domain.ErrClassification.
type Classifier interface {
	Name() string
	Classify(context.Context, domain.ClassificationInput) (domain.ClassificationResult, error)
}

// CaptureIndex is the queryable index of captured resources.
type CaptureIndex interface {
	// Resolve maps a reference to its filesystem path.
	Resolve(ref domain.SourceRef) (string, error)
	// Latest returns the most recent finished capture matching the
	// capture heuristic, or false when none exists.
	Latest(ctx context.Context) (domain.SourceRef, bool, error)
	// Load reads the resource bytes.
	Load(ref domain.SourceRef) ([]byte, string, error)
}

// CaptureSource produces a lazy, non-restartable sequence of capture events.
// The channel closes when ctx is done or the source fails.
type CaptureSource interface {
	Subscribe(ctx context.Context) (<-chan domain.CaptureEvent, error)
}

// KeyValueStore persists opaque values under string keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Animation is a running indicator (pulse or countdown) owned by a surface.
type Animation interface {
	Cancel()
}

// OverlaySurface is the ephemeral, floating presentation channel. Calls are
// made only from the presentation context.
type OverlaySurface interface {
	Attach(view domain.OverlayView) (Animation, error)
	SnapBack()
	Detach(animated bool)
	Toast(message string)
}

// NotificationSurface is the persistent presentation channel. Post replaces
// any notification already shown under the same id.
type NotificationSurface interface {
	Post(id int, n domain.Notification) error
	Cancel(id int) error
}

// ActionHandler performs one category's real-world side effect.
type ActionHandler interface {
	Execute(ctx context.Context, fields domain.Fields, source domain.SourceRef) (domain.Outcome, error)
}

// Messenger delivers transient local messages to the user.
type Messenger interface {
	Toast(message string)
}

// Clipboard copies text with a descriptive label.
type Clipboard interface {
	Copy(label, text string) error
	Enabled() bool
}

// CalendarEvent is an entry inserted by the event-like handler.
type CalendarEvent struct {
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	TimeZone string
}

// Calendar stores events.
type Calendar interface {
	PrimaryCalendarID(ctx context.Context) (int64, bool, error)
	FirstCalendarID(ctx context.Context) (int64, bool, error)
	InsertEvent(ctx context.Context, calendarID int64, event CalendarEvent) (int64, error)
}

// Contact is the record stored by the contact-like handler. Empty optional
// fields are omitted from the insert.
type Contact struct {
	Name         string
	Phone        string
	Email        string
	Organization string
}

// ContactBook performs atomic multi-record contact inserts.
type ContactBook interface {
	SaveContact(ctx context.Context, c Contact) (int64, error)
}

// Alarm is a one-shot alarm.
type Alarm struct {
	Label  string
	Hour   int
	Minute int
}

// AlarmScheduler schedules alarms without presenting a confirmation UI.
type AlarmScheduler interface {
	ScheduleAlarm(ctx context.Context, alarm Alarm) error
}

// WifiSecurity is the declared security type of a network credential.
type WifiSecurity string

const (
	WifiOpen WifiSecurity = "open"
	WifiWPA2 WifiSecurity = "wpa2"
	WifiWPA3 WifiSecurity = "wpa3"
)

// NetworkSuggester registers network connection suggestions.
type NetworkSuggester interface {
	Capable() bool
	Suggest(ctx context.Context, ssid, password string, security WifiSecurity) error
}

// MapOpener opens a map view for a free-form query.
type MapOpener interface {
	OpenQuery(ctx context.Context, query string) error
}

// ShareResult is the per-contact result of a share delegation.
type ShareResult struct {
	Contact string
	Sent    bool
	Error   string
}

// ShareDelegate sends a message to contacts through a remote collaborator.
type ShareDelegate interface {
	Share(ctx context.Context, message string, contacts []string) ([]ShareResult, error)
}

// WatchlistEntry is the remote collaborator's watchlist answer.
type WatchlistEntry struct {
	Title string
	Year  string
	Slug  string
	Note  string
}

// WatchlistDelegate adds a movie to a remote watchlist.
type WatchlistDelegate interface {
	AddToWatchlist(ctx context.Context, movie, year string) (WatchlistEntry, error)
}

// CommandResult captures the outcome of a local system command.
type CommandResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
}

// CommandRunner runs local system commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
	Available(name string) bool
}

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so timer-driven state machines can be tested.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(ctx context.Context, d time.Duration) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
