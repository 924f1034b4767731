// Package commands implements the scrnstr subcommands.
package commands

import (
	"context"
	"sync"

	"github.com/doeshing/scrnstr/internal/app"
)

// Runtime builds the container on first use, after flags are parsed.
type Runtime struct {
	Options app.Options

	mu        sync.Mutex
	container *app.Container
}

// NewRuntime returns a runtime for opts.
func NewRuntime(opts app.Options) *Runtime {
	return &Runtime{Options: opts}
}

// Container returns the shared container, building it if needed.
func (r *Runtime) Container(ctx context.Context) (*app.Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.container != nil {
		return r.container, nil
	}
	c, err := app.BuildContainer(ctx, r.Options)
	if err != nil {
		return nil, err
	}
	r.container = c
	return c, nil
}

// Close releases the container if one was built.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.container == nil {
		return nil
	}
	err := r.container.Close()
	r.container = nil
	return err
}
