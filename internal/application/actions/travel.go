package actions

import (
	"context"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// TravelHandler adds the booking reference to the title and schedules the
// trip as an event.
type TravelHandler struct {
	event  ports.ActionHandler
	logger ports.Logger
}

func NewTravelHandler(event ports.ActionHandler, logger ports.Logger) *TravelHandler {
	return &TravelHandler{event: event, logger: logger}
}

func (h *TravelHandler) Execute(ctx context.Context, fields domain.Fields, source domain.SourceRef) (domain.Outcome, error) {
	return h.event.Execute(ctx, EnrichTravelFields(fields), source)
}

// EnrichTravelFields returns fields with the title set to
// "<title> (Ref: <booking_ref>)" when a booking reference is present.
func EnrichTravelFields(fields domain.Fields) domain.Fields {
	title := fields.Value("title", "Trip")
	if ref := fields.Value("booking_ref", ""); strings.TrimSpace(ref) != "" {
		title = title + " (Ref: " + ref + ")"
	}
	return fields.With("title", title)
}
