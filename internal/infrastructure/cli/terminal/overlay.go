package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

const clearLine = "\r\033[K"

// Overlay draws the ephemeral result card inline in the terminal.
type Overlay struct {
	mu       sync.Mutex
	out      io.Writer
	interval time.Duration
	view     domain.OverlayView
	shown    bool
}

// NewOverlay writes to out.
func NewOverlay(out io.Writer) *Overlay {
	return &Overlay{out: out, interval: 100 * time.Millisecond}
}

// Attach draws view and starts its indicator: a pulse while loading, a
// countdown once the result is shown.
func (o *Overlay) Attach(view domain.OverlayView) (ports.Animation, error) {
	o.mu.Lock()
	o.view = view
	o.shown = true
	switch view.Kind {
	case domain.ViewLoading:
		o.mu.Unlock()
		return startAnimation(o.interval, func(i int) bool {
			o.write(fmt.Sprintf("%s%s Analyzing screenshot...", clearLine, pulseFrames[i%len(pulseFrames)]))
			return true
		}), nil
	case domain.ViewResult:
		fmt.Fprintln(o.out, clearLine+RenderCard(view))
		o.mu.Unlock()
		deadline := time.Now().Add(view.Countdown)
		return startAnimation(o.interval, func(int) bool {
			left := time.Until(deadline).Round(time.Second)
			if left < 0 {
				return false
			}
			o.write(fmt.Sprintf("%s  [a] %s  [d] dismiss  closes in %s", clearLine, view.ActionLabel, left))
			return true
		}), nil
	default:
		o.shown = false
		o.mu.Unlock()
		return nil, fmt.Errorf("unknown overlay kind %q", view.Kind)
	}
}

// SnapBack redraws the action hint after an incomplete swipe.
func (o *Overlay) SnapBack() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.shown {
		fmt.Fprintf(o.out, "%s  [a] %s  [d] dismiss", clearLine, o.view.ActionLabel)
	}
}

// Detach removes the card.
func (o *Overlay) Detach(animated bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.shown {
		return
	}
	o.shown = false
	if animated {
		fmt.Fprintln(o.out, clearLine+lipgloss.NewStyle().Faint(true).Render("  dismissed"))
		return
	}
	fmt.Fprint(o.out, clearLine)
}

// Toast prints a one-line message.
func (o *Overlay) Toast(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.out, clearLine+lipgloss.NewStyle().Bold(true).Render("» "+message))
}

func (o *Overlay) write(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprint(o.out, s)
}

// RenderCard renders a result view as a bordered card tinted with its accent.
func RenderCard(view domain.OverlayView) string {
	accent := lipgloss.Color(view.Accent.Hex())
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(view.Title)
	lines := []string{title}
	if view.Subtitle != "" {
		lines = append(lines, view.Subtitle)
	}
	if !view.Thumbnail.IsEmpty() {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render(view.Thumbnail.String()))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

var _ ports.OverlaySurface = (*Overlay)(nil)
