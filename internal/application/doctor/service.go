// Package doctor runs environment diagnostics for scrnstr.
package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// RemoteProber checks the delegation server.
type RemoteProber interface {
	Probe(ctx context.Context) (string, error)
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Clipboard      ports.Clipboard
	Network        ports.NetworkSuggester
	Remote         RemoteProber
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := cfg.Validate(); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.apiCheck(cfg.Classifier))
	checks = append(checks, watchDirsCheck(cfg.Capture.WatchDirs))

	if s.Clipboard != nil && s.Clipboard.Enabled() {
		checks = append(checks, ok("Clipboard", "available"))
	} else {
		checks = append(checks, warn("Clipboard", "unavailable; coupon and wifi actions are disabled"))
	}

	if s.Network != nil && s.Network.Capable() {
		checks = append(checks, ok("Network suggestions", "nmcli available"))
	} else {
		checks = append(checks, warn("Network suggestions", "not supported; wifi passwords are copied instead"))
	}

	if s.Remote != nil {
		if summary, err := s.Remote.Probe(ctx); err != nil {
			checks = append(checks, warn("Delegation server", err.Error()))
		} else {
			checks = append(checks, ok("Delegation server", summary))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) apiCheck(settings domain.ClassifierSettings) domain.HealthCheck {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name := fmt.Sprintf("Classifier (%s)", settings.Backend)
	envVar := settings.Model.AuthEnvVar
	if envVar == "" && settings.Backend == domain.BackendGemini {
		envVar = domain.DefaultGeminiKeyEnv
	}
	if envVar == "" {
		return ok(name, "no API key required")
	}
	if v, found := lookup(envVar); !found || strings.TrimSpace(v) == "" {
		return fail(name, envVar+" missing")
	}
	return ok(name, envVar+" set")
}

func watchDirsCheck(dirs []string) domain.HealthCheck {
	if len(dirs) == 0 {
		return fail("Capture directories", "none configured")
	}
	var missing []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			missing = append(missing, dir)
		}
	}
	if len(missing) == len(dirs) {
		return fail("Capture directories", "missing: "+strings.Join(missing, ", "))
	}
	if len(missing) > 0 {
		return warn("Capture directories", "missing: "+strings.Join(missing, ", "))
	}
	return ok("Capture directories", strings.Join(dirs, ", "))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
