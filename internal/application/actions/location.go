package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// ErrNoAddress is returned when a location result carries nothing to search.
var ErrNoAddress = errors.New("no address found")

// LocationHandler opens a map search for the extracted place.
type LocationHandler struct {
	maps   ports.MapOpener
	logger ports.Logger
}

func NewLocationHandler(maps ports.MapOpener, logger ports.Logger) *LocationHandler {
	return &LocationHandler{maps: maps, logger: logger}
}

// LocationQuery joins the non-blank place name, address and city.
func LocationQuery(fields domain.Fields) string {
	var parts []string
	for _, key := range []string{"place_name", "address", "city"} {
		if v := fields.Value(key, ""); strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func (h *LocationHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	query := LocationQuery(fields)
	if query == "" {
		return domain.Outcome{}, ErrNoAddress
	}
	if err := h.maps.OpenQuery(ctx, query); err != nil {
		return domain.Outcome{}, fmt.Errorf("open maps: %w", err)
	}
	h.logger.Info("opened maps", map[string]interface{}{"query": query})
	return domain.Outcome{Message: "Opened maps for: " + query}, nil
}
