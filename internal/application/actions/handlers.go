// Package actions implements the per-category side effects run after the
// user confirms a classification.
package actions

import (
	"time"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// SourceResolver maps a source reference to a readable file path.
type SourceResolver interface {
	Resolve(ref domain.SourceRef) (string, error)
}

// Deps bundles the collaborators the built-in handlers need. A nil
// collaborator disables the handlers that depend on it.
type Deps struct {
	BillsDir      string
	ShareContacts []string
	Resolver      SourceResolver
	Calendar      ports.Calendar
	Contacts      ports.ContactBook
	Alarms        ports.AlarmScheduler
	Network       ports.NetworkSuggester
	Clipboard     ports.Clipboard
	Maps          ports.MapOpener
	Share         ports.ShareDelegate
	Watchlist     ports.WatchlistDelegate
	Clock         ports.Clock
	Location      *time.Location
	Logger        ports.Logger
}

// Handlers builds the category → handler table.
func Handlers(deps Deps) map[string]ports.ActionHandler {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	out := make(map[string]ports.ActionHandler)

	if deps.Resolver != nil {
		out[domain.CategoryFoodBill] = NewBillHandler(deps.BillsDir, deps.Resolver, deps.Clock, deps.Logger)
	}
	if deps.Calendar != nil {
		event := NewEventHandler(deps.Calendar, deps.Clock, deps.Location, deps.Logger)
		out[domain.CategoryEvent] = event
		out[domain.CategoryTravel] = NewTravelHandler(event, deps.Logger)
	}
	if deps.Share != nil {
		out[domain.CategoryTechArticle] = NewArticleHandler(deps.Share, deps.ShareContacts, deps.Logger)
	}
	if deps.Watchlist != nil {
		out[domain.CategoryMovie] = NewMovieHandler(deps.Watchlist, deps.Logger)
	}
	if deps.Clipboard != nil {
		out[domain.CategoryCouponCode] = NewCouponHandler(deps.Clipboard, deps.Logger)
		out[domain.CategoryWifiPassword] = NewWifiHandler(deps.Network, deps.Clipboard, deps.Logger)
	}
	if deps.Contacts != nil {
		out[domain.CategoryContact] = NewContactHandler(deps.Contacts, deps.Logger)
	}
	if deps.Maps != nil {
		out[domain.CategoryAddress] = NewLocationHandler(deps.Maps, deps.Logger)
	}
	if deps.Alarms != nil {
		out[domain.CategoryReminder] = NewReminderHandler(deps.Alarms, deps.Logger)
	}
	return out
}
