package system

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// MapOpener opens a map search in the desktop's default handler.
type MapOpener struct {
	runner  ports.CommandRunner
	pattern string
	goos    string
}

// NewMapOpener formats queries into pattern (a %s placeholder receives the
// escaped query).
func NewMapOpener(runner ports.CommandRunner, pattern string) *MapOpener {
	if pattern == "" || !strings.Contains(pattern, "%s") {
		pattern = domain.DefaultMapsURL
	}
	return &MapOpener{runner: runner, pattern: pattern, goos: runtime.GOOS}
}

// URL builds the map link for query.
func (m *MapOpener) URL(query string) string {
	return fmt.Sprintf(m.pattern, url.QueryEscape(query))
}

func (m *MapOpener) OpenQuery(ctx context.Context, query string) error {
	name, args := m.openCommand(m.URL(query))
	if !m.runner.Available(name) {
		return fmt.Errorf("no URL opener (%s) available", name)
	}
	_, err := m.runner.Run(ctx, name, args...)
	return err
}

func (m *MapOpener) openCommand(link string) (string, []string) {
	switch m.goos {
	case "darwin":
		return "open", []string{link}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	default:
		return "xdg-open", []string{link}
	}
}

var _ ports.MapOpener = (*MapOpener)(nil)
