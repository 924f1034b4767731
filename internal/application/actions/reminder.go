package actions

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// ParseReminderTime extracts hour and minute from text such as "7:30 pm".
// Unparseable input yields 09:00.
func ParseReminderTime(text string) (hour, minute int) {
	match := clockPattern.FindStringSubmatch(text)
	if match == nil {
		return 9, 0
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])

	lower := strings.ToLower(text)
	if strings.Contains(lower, "pm") && hour < 12 {
		hour += 12
	}
	if strings.Contains(lower, "am") && hour == 12 {
		hour = 0
	}
	return clamp(hour, 0, 23), clamp(minute, 0, 59)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ReminderHandler schedules a one-shot alarm without confirmation.
type ReminderHandler struct {
	alarms ports.AlarmScheduler
	logger ports.Logger
}

func NewReminderHandler(alarms ports.AlarmScheduler, logger ports.Logger) *ReminderHandler {
	return &ReminderHandler{alarms: alarms, logger: logger}
}

func (h *ReminderHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	title := fields.Value("title", "Reminder")
	hour, minute := ParseReminderTime(fields.Value("time", ""))
	if err := h.alarms.ScheduleAlarm(ctx, ports.Alarm{Label: title, Hour: hour, Minute: minute}); err != nil {
		return domain.Outcome{}, fmt.Errorf("schedule alarm: %w", err)
	}
	h.logger.Info("alarm set", map[string]interface{}{"title": title, "at": fmt.Sprintf("%d:%02d", hour, minute)})
	return domain.Outcome{Message: "Alarm set: " + title}, nil
}
