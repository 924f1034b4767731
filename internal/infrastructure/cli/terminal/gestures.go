package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
)

// GestureTarget receives gestures for the live session.
type GestureTarget interface {
	State() (domain.SessionState, string)
	HandleGesture(sessionID string, g domain.Gesture)
}

// ParseGesture maps one input line to a gesture:
//
//	a, enter  tap the action
//	d         swipe away
//	s         short drag that snaps back
//	o         tap outside the card
func ParseGesture(line string, threshold float64) (domain.Gesture, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "a":
		return domain.Gesture{Kind: domain.GestureTapAction}, true
	case "d":
		return domain.Gesture{Kind: domain.GestureDrag, DeltaY: -(threshold + 1)}, true
	case "s":
		return domain.Gesture{Kind: domain.GestureDrag, DeltaY: threshold / 2}, true
	case "o":
		return domain.Gesture{Kind: domain.GestureTapOutside}, true
	default:
		return domain.Gesture{}, false
	}
}

// ReadGestures forwards gestures read from r to target until r is exhausted
// or ctx is done. Input while no result is shown is ignored.
func ReadGestures(ctx context.Context, r io.Reader, target GestureTarget, threshold float64) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		g, ok := ParseGesture(scanner.Text(), threshold)
		if !ok {
			continue
		}
		state, session := target.State()
		if state != domain.SessionResultShown {
			continue
		}
		target.HandleGesture(session, g)
	}
	return scanner.Err()
}
