package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// eventLayouts is tried in order against "date time"; the first layout that
// parses wins.
var eventLayouts = []string{
	"2006-1-2 15:04",
	"1/2/2006 15:04",
	"2 Jan 2006 15:04",
	"Mon 2 Jan 2006 3:04 PM",
	"Mon 2 Jan 2006 15:04",
	"2 Jan 2006 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"January 2, 2006 15:04",
	"2006-1-2",
	"1/2/2006",
	"2 Jan 2006",
	"Mon 2 Jan 2006",
}

// dateLayouts is tried against the date alone when the combined text does
// not parse; the time of day is then read separately.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon 2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, January 2, 2006",
}

// fallbackCalendarID is used when the calendar store reports no calendars.
const fallbackCalendarID int64 = 1

// ParseEventStart resolves the start instant from free-form date and time
// text. A date that only parses on its own keeps the day and takes the hour
// from the first H:MM in the time text. When nothing matches it returns
// tomorrow at 12:00 in loc and false.
func ParseEventStart(date, clock string, now time.Time, loc *time.Location) (time.Time, bool) {
	combined := strings.ToUpper(strings.TrimSpace(date + " " + clock))
	if combined != "" {
		for _, layout := range eventLayouts {
			if t, err := time.ParseInLocation(layout, combined, loc); err == nil {
				return t, true
			}
		}
	}
	if day, ok := parseEventDate(date, loc); ok {
		if clockPattern.MatchString(clock) {
			hour, minute := ParseReminderTime(clock)
			y, m, d := day.Date()
			day = time.Date(y, m, d, hour, minute, 0, 0, loc)
		}
		return day, true
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 12, 0, 0, 0, loc), false
}

func parseEventDate(date string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EventHandler inserts a two hour calendar entry.
type EventHandler struct {
	calendar ports.Calendar
	clock    ports.Clock
	loc      *time.Location
	logger   ports.Logger
}

func NewEventHandler(calendar ports.Calendar, clock ports.Clock, loc *time.Location, logger ports.Logger) *EventHandler {
	return &EventHandler{calendar: calendar, clock: clock, loc: loc, logger: logger}
}

func (h *EventHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	title := fields.Value("title", "Event")
	start, parsed := ParseEventStart(fields.Value("date", ""), fields.Value("time", ""), h.clock.Now(), h.loc)
	if !parsed {
		h.logger.Debug("event date unparseable, using fallback", map[string]interface{}{
			"date": fields.Value("date", ""),
			"time": fields.Value("time", ""),
		})
	}

	calendarID, err := h.calendarID(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	event := ports.CalendarEvent{
		Title:    title,
		Start:    start,
		End:      start.Add(domain.DefaultEventDuration),
		Location: fields.Value("location", ""),
		TimeZone: h.loc.String(),
	}
	if _, err := h.calendar.InsertEvent(ctx, calendarID, event); err != nil {
		return domain.Outcome{}, fmt.Errorf("insert event: %w", err)
	}
	h.logger.Info("event added", map[string]interface{}{"title": title, "start": start.Format(domain.TimestampFormat)})
	return domain.Outcome{Message: "Event added to calendar"}, nil
}

func (h *EventHandler) calendarID(ctx context.Context) (int64, error) {
	id, ok, err := h.calendar.PrimaryCalendarID(ctx)
	if err != nil {
		return 0, fmt.Errorf("lookup primary calendar: %w", err)
	}
	if ok {
		return id, nil
	}
	id, ok, err = h.calendar.FirstCalendarID(ctx)
	if err != nil {
		return 0, fmt.Errorf("lookup calendars: %w", err)
	}
	if ok {
		return id, nil
	}
	h.logger.Warn("no calendar found, using default id", map[string]interface{}{"calendar_id": fallbackCalendarID})
	return fallbackCalendarID, nil
}
