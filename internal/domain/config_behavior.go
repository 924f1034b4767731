package domain

import (
	"fmt"
	"strings"
)

// Validate reports configuration values that would make the pipeline unusable.
func (c *Config) Validate() error {
	var problems []string
	if c.Capture.DebounceMS < 0 {
		problems = append(problems, "capture.debounce_ms must be >= 0")
	}
	if c.Capture.SettleDelayMS < 0 {
		problems = append(problems, "capture.settle_delay_ms must be >= 0")
	}
	switch c.Classifier.Backend {
	case BackendGemini, BackendHTTP:
	default:
		problems = append(problems, fmt.Sprintf("classifier.backend %q is not one of gemini, http", c.Classifier.Backend))
	}
	if c.Classifier.Backend == BackendHTTP && c.Classifier.Model.Endpoint == "" {
		problems = append(problems, "classifier.model.endpoint is required for the http backend")
	}
	if c.Feedback.AutoDismissMS <= 0 {
		problems = append(problems, "feedback.auto_dismiss_ms must be > 0")
	}
	if c.Feedback.SwipeThreshold <= 0 {
		problems = append(problems, "feedback.swipe_threshold must be > 0")
	}
	if c.Actions.RequestsPerSecond < 0 {
		problems = append(problems, "actions.requests_per_second must be >= 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MatchesCapturePath applies the cheap path heuristic used to decide whether a
// changed file looks like a capture. The match is a case-insensitive substring
// test on the path, never on content.
func (c CaptureSettings) MatchesCapturePath(path string) bool {
	pattern := c.PathPattern
	if pattern == "" {
		pattern = DefaultPathPattern
	}
	return strings.Contains(strings.ToLower(path), strings.ToLower(pattern))
}

// IsPending reports whether a path is still marked as an incomplete write.
func (c CaptureSettings) IsPending(path string) bool {
	marker := c.PendingMarker
	if marker == "" {
		marker = DefaultPendingMarker
	}
	return strings.Contains(path, marker)
}
