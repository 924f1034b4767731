package pim

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/pkg/clock"
	"github.com/doeshing/scrnstr/internal/ports"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pim", "pim.db"), clock.NewFake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCalendarLookup(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.PrimaryCalendarID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.FirstCalendarID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	work, err := s.EnsureCalendar(ctx, "Work", false)
	require.NoError(t, err)
	first, ok, err := s.FirstCalendarID(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, work, first)
	_, ok, err = s.PrimaryCalendarID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	personal, err := s.EnsureCalendar(ctx, "Personal", true)
	require.NoError(t, err)
	again, err := s.EnsureCalendar(ctx, "Personal", true)
	require.NoError(t, err)
	assert.Equal(t, personal, again)

	primary, ok, err := s.PrimaryCalendarID(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, personal, primary)
}

func TestInsertEvent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	id, err := s.InsertEvent(ctx, 1, ports.CalendarEvent{
		Title: "Launch", Start: start, End: start.Add(2 * time.Hour), Location: "HQ", TimeZone: "UTC",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	events, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].CalendarID)
	assert.Equal(t, "Launch", events[0].Title)
	assert.True(t, events[0].Start.Equal(start))
	assert.True(t, events[0].End.Equal(start.Add(2*time.Hour)))
	assert.Equal(t, "HQ", events[0].Location)
}

func TestSaveContactRows(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.SaveContact(ctx, ports.Contact{Name: "Ada", Phone: "+44 1", Email: "ada@example.com", Organization: "Engines"})
	require.NoError(t, err)
	sparse, err := s.SaveContact(ctx, ports.Contact{Name: "Unknown"})
	require.NoError(t, err)

	rows, err := s.ContactRows(ctx)
	require.NoError(t, err)
	want := []ContactRow{
		{RawContactID: id, Kind: KindName, Value: "Ada"},
		{RawContactID: id, Kind: KindPhone, Value: "+44 1", Type: TypeMobile},
		{RawContactID: id, Kind: KindEmail, Value: "ada@example.com", Type: TypeWork},
		{RawContactID: id, Kind: KindOrganization, Value: "Engines"},
		{RawContactID: sparse, Kind: KindName, Value: "Unknown"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("contact rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveContactCanceledLeavesNothing(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SaveContact(ctx, ports.Contact{Name: "Ada", Phone: "1"})
	require.Error(t, err)

	rows, err := s.ContactRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestScheduleAlarm(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.ScheduleAlarm(ctx, ports.Alarm{Label: "Dentist", Hour: 15, Minute: 30}))
	assert.Error(t, s.ScheduleAlarm(ctx, ports.Alarm{Label: "bad", Hour: 24}))

	alarms, err := s.Alarms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ports.Alarm{{Label: "Dentist", Hour: 15, Minute: 30}}, alarms)
}
