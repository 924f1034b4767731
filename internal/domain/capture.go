// Package domain defines core entities and value objects for scrnstr.
//
// The domain layer is independent of infrastructure concerns: it describes
// capture events, classification results, feedback sessions, action triggers
// and the retained intercept history, without knowing how any of them are
// produced, rendered or persisted.
package domain

import "time"

// SourceRef identifies a captured resource (a file path for filesystem
// captures). The zero value is the empty sentinel used when a classification
// has no backing resource, e.g. free-form text input.
type SourceRef string

// EmptySourceRef is the sentinel for "no source resource".
const EmptySourceRef SourceRef = ""

// IsEmpty reports whether the reference is the empty sentinel.
func (r SourceRef) IsEmpty() bool {
	return r == EmptySourceRef
}

func (r SourceRef) String() string {
	return string(r)
}

// CaptureEvent is a notification that a new source resource may exist.
type CaptureEvent struct {
	SourceRef  SourceRef
	DetectedAt time.Time
}
