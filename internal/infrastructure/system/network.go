package system

import (
	"context"
	"fmt"

	"github.com/doeshing/scrnstr/internal/ports"
)

// NMCLISuggester saves Wi-Fi profiles through NetworkManager without
// connecting, leaving the choice to join to the user.
type NMCLISuggester struct {
	runner ports.CommandRunner
}

func NewNMCLISuggester(runner ports.CommandRunner) *NMCLISuggester {
	return &NMCLISuggester{runner: runner}
}

func (n *NMCLISuggester) Capable() bool {
	return n.runner.Available("nmcli")
}

func (n *NMCLISuggester) Suggest(ctx context.Context, ssid, password string, security ports.WifiSecurity) error {
	_, err := n.runner.Run(ctx, "nmcli", suggestArgs(ssid, password, security)...)
	if err != nil {
		return fmt.Errorf("save network %q: %w", ssid, err)
	}
	return nil
}

func suggestArgs(ssid, password string, security ports.WifiSecurity) []string {
	args := []string{"connection", "add", "type", "wifi", "con-name", ssid, "ssid", ssid, "connection.autoconnect", "no"}
	switch security {
	case ports.WifiWPA3:
		args = append(args, "wifi-sec.key-mgmt", "sae", "wifi-sec.psk", password)
	case ports.WifiWPA2:
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.psk", password)
	}
	return args
}

var _ ports.NetworkSuggester = (*NMCLISuggester)(nil)
