package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Dispatcher invokes handlers off the presentation context. A failing or
// panicking handler is logged and reported through the Messenger; nothing is
// returned to the caller and nothing is retried.
type Dispatcher struct {
	registry  *Registry
	messenger ports.Messenger
	logger    ports.Logger
	group     errgroup.Group
}

// NewDispatcher wires a dispatcher. messenger may be nil.
func NewDispatcher(registry *Registry, messenger ports.Messenger, logger ports.Logger) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		messenger: messenger,
		logger:    logger,
	}
}

// Dispatch runs the handler for category in the background.
func (d *Dispatcher) Dispatch(ctx context.Context, category string, fields domain.Fields, source domain.SourceRef) {
	d.group.Go(func() error {
		d.Run(ctx, category, fields, source)
		return nil
	})
}

// Run executes the handler for category on the calling goroutine.
func (d *Dispatcher) Run(ctx context.Context, category string, fields domain.Fields, source domain.SourceRef) {
	handler, known := d.registry.Lookup(category)
	logFields := map[string]interface{}{
		"stage":    "dispatch",
		"category": category,
		"source":   source.String(),
	}
	if !known {
		d.logger.Debug("unregistered category routed to no-op", logFields)
	}

	start := time.Now()
	outcome, err := d.invoke(ctx, handler, fields, source)
	logFields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		d.logger.Error("action handler failed", err, logFields)
		d.toast(fmt.Sprintf("Action failed: %s", userMessage(err)))
		return
	}
	d.logger.Info("action handler completed", logFields)
	if outcome.Message != "" {
		d.toast(outcome.Message)
	}
}

// Wait blocks until every dispatched handler has returned.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}

func (d *Dispatcher) invoke(ctx context.Context, handler ports.ActionHandler, fields domain.Fields, source domain.SourceRef) (outcome domain.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrHandler, r)
		}
	}()
	outcome, err = handler.Execute(ctx, fields, source)
	if err != nil && !errors.Is(err, domain.ErrHandler) {
		err = fmt.Errorf("%w: %w", domain.ErrHandler, err)
	}
	return outcome, err
}

func (d *Dispatcher) toast(message string) {
	if d.messenger == nil {
		return
	}
	d.messenger.Toast(message)
}

// userMessage drops the taxonomy prefix from a wrapped handler error.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrHandler.Error()+": ")
}
