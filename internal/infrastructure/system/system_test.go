package system

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/pkg/logger"
	"github.com/doeshing/scrnstr/internal/ports"
)

type call struct {
	name string
	args []string
}

type stubRunner struct {
	installed map[string]bool
	calls     []call
	err       error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) (ports.CommandResult, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	return ports.CommandResult{}, s.err
}

func (s *stubRunner) Available(name string) bool {
	return s.installed[name]
}

func TestLocalRunner(t *testing.T) {
	r := NewLocalRunner(0)
	if !r.Available("sh") {
		t.Skip("sh not installed")
	}
	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)

	res, err = r.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)

	_, err = r.Run(context.Background(), "definitely-not-a-command-scrnstr")
	assert.Error(t, err)
	assert.False(t, r.Available("definitely-not-a-command-scrnstr"))
}

func TestAvailableTools(t *testing.T) {
	runner := &stubRunner{installed: map[string]bool{"xdg-open": true, "nmcli": true}}
	assert.Equal(t, []string{"nmcli", "xdg-open"}, AvailableTools(runner, "xdg-open", "open", "nmcli"))
}

func TestMapOpener(t *testing.T) {
	runner := &stubRunner{installed: map[string]bool{"xdg-open": true, "open": true}}
	m := NewMapOpener(runner, "")
	m.goos = "linux"

	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Caf%C3%A9+Central%2C+Vienna", m.URL("Café Central, Vienna"))
	require.NoError(t, m.OpenQuery(context.Background(), "Café Central, Vienna"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "xdg-open", runner.calls[0].name)
	assert.Equal(t, []string{m.URL("Café Central, Vienna")}, runner.calls[0].args)

	m.goos = "darwin"
	require.NoError(t, m.OpenQuery(context.Background(), "x"))
	assert.Equal(t, "open", runner.calls[1].name)
}

func TestMapOpenerWithoutOpener(t *testing.T) {
	m := NewMapOpener(&stubRunner{}, "https://maps.example/?q=%s")
	m.goos = "linux"
	assert.Equal(t, "https://maps.example/?q=a+b", m.URL("a b"))
	assert.Error(t, m.OpenQuery(context.Background(), "a b"))
}

func TestNMCLISuggester(t *testing.T) {
	runner := &stubRunner{installed: map[string]bool{"nmcli": true}}
	n := NewNMCLISuggester(runner)
	require.True(t, n.Capable())

	require.NoError(t, n.Suggest(context.Background(), "Cafe", "secret", ports.WifiWPA2))
	require.NoError(t, n.Suggest(context.Background(), "Lab", "secret", ports.WifiWPA3))
	require.NoError(t, n.Suggest(context.Background(), "Guest", "", ports.WifiOpen))

	base := func(ssid string) []string {
		return []string{"connection", "add", "type", "wifi", "con-name", ssid, "ssid", ssid, "connection.autoconnect", "no"}
	}
	assert.Equal(t, append(base("Cafe"), "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.psk", "secret"), runner.calls[0].args)
	assert.Equal(t, append(base("Lab"), "wifi-sec.key-mgmt", "sae", "wifi-sec.psk", "secret"), runner.calls[1].args)
	assert.Equal(t, base("Guest"), runner.calls[2].args)

	runner.err = errors.New("boom")
	assert.Error(t, n.Suggest(context.Background(), "Cafe", "secret", ports.WifiWPA2))
	assert.False(t, NewNMCLISuggester(&stubRunner{}).Capable())
}

func TestClipboard(t *testing.T) {
	var copied string
	c := &Clipboard{write: func(s string) error { copied = s; return nil }, supported: true, logger: logger.NewNop()}
	require.NoError(t, c.Copy("WiFi Password", "hunter2"))
	assert.Equal(t, "hunter2", copied)

	c.write = func(string) error { return errors.New("no display") }
	assert.ErrorContains(t, c.Copy("Coupon Code", "X"), "Coupon Code")

	c.supported = false
	assert.False(t, c.Enabled())
	assert.Error(t, c.Copy("Coupon Code", "X"))
}
