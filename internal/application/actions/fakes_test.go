package actions

import (
	"context"
	"errors"
	"sync"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

type fakeCalendar struct {
	primary    int64
	hasPrimary bool
	first      int64
	hasFirst   bool
	inserted   []ports.CalendarEvent
	calendarID []int64
}

func (c *fakeCalendar) PrimaryCalendarID(context.Context) (int64, bool, error) {
	return c.primary, c.hasPrimary, nil
}

func (c *fakeCalendar) FirstCalendarID(context.Context) (int64, bool, error) {
	return c.first, c.hasFirst, nil
}

func (c *fakeCalendar) InsertEvent(_ context.Context, id int64, event ports.CalendarEvent) (int64, error) {
	c.calendarID = append(c.calendarID, id)
	c.inserted = append(c.inserted, event)
	return int64(len(c.inserted)), nil
}

type fakeClipboard struct {
	labels []string
	texts  []string
}

func (c *fakeClipboard) Copy(label, text string) error {
	c.labels = append(c.labels, label)
	c.texts = append(c.texts, text)
	return nil
}

func (c *fakeClipboard) Enabled() bool { return true }

type fakeNetwork struct {
	capable   bool
	ssid      string
	password  string
	security  ports.WifiSecurity
	suggested int
}

func (n *fakeNetwork) Capable() bool { return n.capable }

func (n *fakeNetwork) Suggest(_ context.Context, ssid, password string, security ports.WifiSecurity) error {
	n.suggested++
	n.ssid, n.password, n.security = ssid, password, security
	return nil
}

type fakeMaps struct {
	queries []string
}

func (m *fakeMaps) OpenQuery(_ context.Context, query string) error {
	m.queries = append(m.queries, query)
	return nil
}

type fakeAlarms struct {
	alarms []ports.Alarm
}

func (a *fakeAlarms) ScheduleAlarm(_ context.Context, alarm ports.Alarm) error {
	a.alarms = append(a.alarms, alarm)
	return nil
}

type fakeContacts struct {
	saved []ports.Contact
	err   error
}

func (c *fakeContacts) SaveContact(_ context.Context, contact ports.Contact) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.saved = append(c.saved, contact)
	return int64(len(c.saved)), nil
}

type fakeShare struct {
	message  string
	contacts []string
	results  []ports.ShareResult
}

func (s *fakeShare) Share(_ context.Context, message string, contacts []string) ([]ports.ShareResult, error) {
	s.message, s.contacts = message, contacts
	return s.results, nil
}

type fakeWatchlist struct {
	mu    sync.Mutex
	movie string
	year  string
	entry ports.WatchlistEntry
	err   error
}

func (w *fakeWatchlist) AddToWatchlist(_ context.Context, movie, year string) (ports.WatchlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.movie, w.year = movie, year
	return w.entry, w.err
}

type pathResolver struct{}

func (pathResolver) Resolve(ref domain.SourceRef) (string, error) {
	if ref.IsEmpty() {
		return "", errors.New("empty reference")
	}
	return ref.String(), nil
}
