// Package system adapts host services (processes, clipboard, maps, network
// profiles) to the ports the action handlers use.
package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/doeshing/scrnstr/internal/ports"
)

// LocalRunner runs commands on the host without a shell.
type LocalRunner struct {
	timeout time.Duration
}

// NewLocalRunner builds a runner; a zero timeout leaves commands unbounded.
func NewLocalRunner(timeout time.Duration) *LocalRunner {
	return &LocalRunner{timeout: timeout}
}

// Run implements ports.CommandRunner. A non-zero exit is returned as an
// error alongside the populated result.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	c := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	result := ports.CommandResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("%s exited %d: %s", name, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	if err != nil {
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

// Available reports whether name resolves on PATH.
func (r *LocalRunner) Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// AvailableTools filters names down to those installed, sorted.
func AvailableTools(runner ports.CommandRunner, names ...string) []string {
	var available []string
	for _, name := range names {
		if runner.Available(name) {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}

var _ ports.CommandRunner = (*LocalRunner)(nil)
