package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// CouponHandler copies a voucher code to the clipboard.
type CouponHandler struct {
	clipboard ports.Clipboard
	logger    ports.Logger
}

func NewCouponHandler(clipboard ports.Clipboard, logger ports.Logger) *CouponHandler {
	return &CouponHandler{clipboard: clipboard, logger: logger}
}

func (h *CouponHandler) Execute(_ context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	code, ok := fields.Get("code")
	if !ok {
		h.logger.Info("coupon without code ignored", nil)
		return domain.Outcome{}, nil
	}
	label := "Coupon Code"
	if platform := fields.Value("platform", ""); platform != "" {
		label = fmt.Sprintf("Coupon (%s)", platform)
	}
	if err := h.clipboard.Copy(label, code); err != nil {
		return domain.Outcome{}, fmt.Errorf("copy coupon: %w", err)
	}
	return domain.Outcome{Message: "Coupon copied: " + code}, nil
}

// WifiHandler registers a network suggestion, or copies the password when
// the platform cannot.
type WifiHandler struct {
	network   ports.NetworkSuggester
	clipboard ports.Clipboard
	logger    ports.Logger
}

func NewWifiHandler(network ports.NetworkSuggester, clipboard ports.Clipboard, logger ports.Logger) *WifiHandler {
	return &WifiHandler{network: network, clipboard: clipboard, logger: logger}
}

// WifiSecurityOf infers the security type from the declared text.
func WifiSecurityOf(declared, password string) ports.WifiSecurity {
	upper := strings.ToUpper(declared)
	switch {
	case strings.Contains(upper, "WPA3"):
		return ports.WifiWPA3
	case strings.Contains(upper, "OPEN"), strings.TrimSpace(password) == "":
		return ports.WifiOpen
	default:
		return ports.WifiWPA2
	}
}

func (h *WifiHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	ssid, ok := fields.Get("ssid")
	if !ok {
		h.logger.Info("wifi credential without ssid ignored", nil)
		return domain.Outcome{}, nil
	}
	password := fields.Value("password", "")

	if h.network != nil && h.network.Capable() {
		security := WifiSecurityOf(fields.Value("security", "WPA2"), password)
		if err := h.network.Suggest(ctx, ssid, password, security); err != nil {
			return domain.Outcome{}, fmt.Errorf("wifi suggestion failed: %w", err)
		}
		return domain.Outcome{Message: "WiFi suggestion added for " + ssid}, nil
	}

	if err := h.clipboard.Copy("WiFi Password", password); err != nil {
		return domain.Outcome{}, fmt.Errorf("copy wifi password: %w", err)
	}
	return domain.Outcome{Message: "WiFi password copied for " + ssid}, nil
}
