package domain

import "time"

// SessionState enumerates the feedback session lifecycle.
type SessionState string

const (
	SessionIdle        SessionState = "idle"
	SessionLoading     SessionState = "loading"
	SessionResultShown SessionState = "result_shown"
	SessionDismissed   SessionState = "dismissed"
)

// ViewKind distinguishes overlay layouts.
type ViewKind string

const (
	ViewLoading ViewKind = "loading"
	ViewResult  ViewKind = "result"
)

// AccentColor is an ARGB color used to tint a result surface.
type AccentColor uint32

// Accent palette.
const (
	AccentGreen  AccentColor = 0xFF00FF41
	AccentAmber  AccentColor = 0xFFFFB000
	AccentPink   AccentColor = 0xFFFF4081
	AccentBlue   AccentColor = 0xFF448AFF
	AccentOrange AccentColor = 0xFFFF6D00
	AccentPurple AccentColor = 0xFFE040FB
)

// Hex renders the color as #RRGGBB.
func (c AccentColor) Hex() string {
	const digits = "0123456789ABCDEF"
	rgb := uint32(c) & 0xFFFFFF
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i := 6; i >= 1; i-- {
		out[i] = digits[rgb&0xF]
		rgb >>= 4
	}
	return string(out)
}

// DisplayRow is one row of the category lookup table. Templates are
// text/template strings rendered against the classification result.
type DisplayRow struct {
	TitleTemplate             string
	SubtitleTemplate          string
	ActionLabel               string
	NotificationTitleTemplate string
	NotificationTextTemplate  string
	Accent                    AccentColor
}

// OverlayView is the view-model handed to an overlay surface.
type OverlayView struct {
	Kind        ViewKind
	SessionID   string
	Category    string
	Title       string
	Subtitle    string
	ActionLabel string
	Accent      AccentColor
	Thumbnail   SourceRef
	Countdown   time.Duration
}

// Notification is the view-model handed to the notification surface.
type Notification struct {
	Title    string
	Text     string
	Accent   AccentColor
	Ongoing  bool
	Progress bool
	Trigger  *ActionTrigger
}

// GestureKind enumerates user interactions with a result overlay.
type GestureKind string

const (
	GestureTapAction  GestureKind = "tap_action"
	GestureTapOutside GestureKind = "tap_outside"
	GestureDrag       GestureKind = "drag"
)

// Gesture is a completed user interaction. DeltaY is the net vertical
// displacement of a drag.
type Gesture struct {
	Kind   GestureKind
	DeltaY float64
}
