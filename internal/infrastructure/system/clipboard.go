package system

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/doeshing/scrnstr/internal/ports"
)

// Clipboard implements ports.Clipboard on top of the system clipboard.
type Clipboard struct {
	write     func(string) error
	supported bool
	logger    ports.Logger
}

// NewClipboard builds the clipboard helper.
func NewClipboard(logger ports.Logger) *Clipboard {
	return &Clipboard{write: clipboard.WriteAll, supported: !clipboard.Unsupported, logger: logger}
}

func (c *Clipboard) Enabled() bool {
	return c.supported
}

// Copy places text on the clipboard. The label only names the copy in logs;
// desktop clipboards carry no description.
func (c *Clipboard) Copy(label, text string) error {
	if !c.supported {
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
	if err := c.write(text); err != nil {
		return fmt.Errorf("copy %s: %w", label, err)
	}
	c.logger.Debug("copied to clipboard", map[string]interface{}{"label": label, "length": len(text)})
	return nil
}

var _ ports.Clipboard = (*Clipboard)(nil)
