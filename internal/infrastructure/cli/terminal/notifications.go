package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Board is the persistent notification store behind the terminal echo.
type Board interface {
	ports.NotificationSurface
	Current(id int) (domain.Notification, bool, error)
}

// Notifier echoes notifications to the terminal and persists them on the
// board so other processes can act on them.
type Notifier struct {
	board Board
	out   io.Writer
}

// NewNotifier wraps board.
func NewNotifier(board Board, out io.Writer) *Notifier {
	return &Notifier{board: board, out: out}
}

func (n *Notifier) Post(id int, note domain.Notification) error {
	if err := n.board.Post(id, note); err != nil {
		return err
	}
	if note.Progress {
		return nil
	}
	// The board assigns trigger ids on write.
	if stored, ok, err := n.board.Current(id); err == nil && ok {
		note = stored
	}
	fmt.Fprintln(n.out, clearLine+FormatNotification(note))
	return nil
}

func (n *Notifier) Cancel(id int) error {
	return n.board.Cancel(id)
}

// FormatNotification renders a notification on one line.
func FormatNotification(note domain.Notification) string {
	title := AccentColor(note.Accent).Add(color.Bold).Sprint(note.Title)
	line := fmt.Sprintf("%s %s  %s", color.New(color.Faint).Sprint("[notification]"), title, note.Text)
	if note.Trigger != nil && note.Trigger.ID != "" {
		line += color.New(color.Faint).Sprintf("  (scrnstr act %s)", note.Trigger.ID)
	}
	return line
}

// AccentColor maps an accent to the closest terminal color.
func AccentColor(accent domain.AccentColor) *color.Color {
	switch accent {
	case domain.AccentGreen:
		return color.New(color.FgGreen)
	case domain.AccentAmber, domain.AccentOrange:
		return color.New(color.FgYellow)
	case domain.AccentPink, domain.AccentPurple:
		return color.New(color.FgMagenta)
	case domain.AccentBlue:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgWhite)
	}
}

var _ ports.NotificationSurface = (*Notifier)(nil)
