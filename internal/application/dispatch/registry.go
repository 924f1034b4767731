// Package dispatch routes a confirmed classification to the action handler
// registered for its category and isolates handler failures.
package dispatch

import (
	"context"
	"sort"
	"sync"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Registry maps category tags to handlers. Unknown tags resolve to a no-op
// handler, never to nil.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]ports.ActionHandler
	logger   ports.Logger
}

// NewRegistry creates an empty registry whose fallback logs and does nothing.
func NewRegistry(logger ports.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]ports.ActionHandler),
		logger:   logger,
	}
}

// Register binds category to handler, replacing any previous binding.
func (r *Registry) Register(category string, handler ports.ActionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[category] = handler
}

// RegisterAll binds every entry of handlers.
func (r *Registry) RegisterAll(handlers map[string]ports.ActionHandler) {
	for category, handler := range handlers {
		r.Register(category, handler)
	}
}

// Lookup returns the handler for category and whether it was registered.
// When it was not, a no-op handler that logs category is returned.
func (r *Registry) Lookup(category string) (ports.ActionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if handler, ok := r.handlers[category]; ok && handler != nil {
		return handler, true
	}
	return noopHandler{category: category, logger: r.logger}, false
}

// Categories lists registered tags in sorted order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for category := range r.handlers {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

type noopHandler struct {
	category string
	logger   ports.Logger
}

func (h noopHandler) Execute(_ context.Context, fields domain.Fields, source domain.SourceRef) (domain.Outcome, error) {
	h.logger.Info("no action for category", map[string]interface{}{
		"category": h.category,
		"fields":   fields.Len(),
		"source":   source.String(),
	})
	return domain.Outcome{}, nil
}
