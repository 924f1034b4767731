// Package pim is a local personal-information store (calendar, contacts and
// alarms) backed by SQLite.
package pim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Data row kinds.
const (
	KindName         = "name"
	KindPhone        = "phone"
	KindEmail        = "email"
	KindOrganization = "organization"
)

// Data row types.
const (
	TypeMobile = "mobile"
	TypeWork   = "work"
)

const schema = `
CREATE TABLE IF NOT EXISTS calendars (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	is_primary INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	calendar_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	dtstart INTEGER NOT NULL,
	dtend INTEGER NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	timezone TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS raw_contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contact_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	raw_contact_id INTEGER NOT NULL REFERENCES raw_contacts(id),
	kind TEXT NOT NULL,
	value TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS alarms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL,
	hour INTEGER NOT NULL,
	minute INTEGER NOT NULL,
	created_at TEXT NOT NULL
);`

// Store implements Calendar, ContactBook and AlarmScheduler.
type Store struct {
	db    *sql.DB
	path  string
	clock ports.Clock
}

// Open opens (or creates) the database at path.
func Open(path string, clock ports.Clock) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create pim dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pim store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init pim schema: %w", err)
	}
	return &Store{db: db, path: path, clock: clock}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureCalendar returns the id of the calendar called name, creating it
// when missing.
func (s *Store) EnsureCalendar(ctx context.Context, name string, primary bool) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM calendars WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO calendars (name, is_primary) VALUES (?, ?)`, name, boolInt(primary))
	if err != nil {
		return 0, fmt.Errorf("create calendar: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) PrimaryCalendarID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx, `SELECT id FROM calendars WHERE is_primary = 1 ORDER BY id LIMIT 1`)
}

func (s *Store) FirstCalendarID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx, `SELECT id FROM calendars ORDER BY id LIMIT 1`)
}

func (s *Store) queryID(ctx context.Context, query string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, query).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) InsertEvent(ctx context.Context, calendarID int64, event ports.CalendarEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (calendar_id, title, dtstart, dtend, location, timezone) VALUES (?, ?, ?, ?, ?, ?)`,
		calendarID, event.Title, event.Start.UnixMilli(), event.End.UnixMilli(), event.Location, event.TimeZone)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return res.LastInsertId()
}

// SaveContact writes the raw contact and its data rows in one transaction.
func (s *Store) SaveContact(ctx context.Context, c ports.Contact) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO raw_contacts (created_at) VALUES (?)`,
		s.clock.Now().UTC().Format(domain.TimestampFormat))
	if err != nil {
		return 0, fmt.Errorf("insert raw contact: %w", err)
	}
	rawID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	rows := []struct{ kind, value, typ string }{{KindName, c.Name, ""}}
	if c.Phone != "" {
		rows = append(rows, struct{ kind, value, typ string }{KindPhone, c.Phone, TypeMobile})
	}
	if c.Email != "" {
		rows = append(rows, struct{ kind, value, typ string }{KindEmail, c.Email, TypeWork})
	}
	if c.Organization != "" {
		rows = append(rows, struct{ kind, value, typ string }{KindOrganization, c.Organization, ""})
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact_data (raw_contact_id, kind, value, type) VALUES (?, ?, ?, ?)`,
			rawID, r.kind, r.value, r.typ); err != nil {
			return 0, fmt.Errorf("insert %s row: %w", r.kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit contact: %w", err)
	}
	return rawID, nil
}

func (s *Store) ScheduleAlarm(ctx context.Context, alarm ports.Alarm) error {
	if alarm.Hour < 0 || alarm.Hour > 23 || alarm.Minute < 0 || alarm.Minute > 59 {
		return fmt.Errorf("invalid alarm time %02d:%02d", alarm.Hour, alarm.Minute)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO alarms (label, hour, minute, created_at) VALUES (?, ?, ?, ?)`,
		alarm.Label, alarm.Hour, alarm.Minute, s.clock.Now().UTC().Format(domain.TimestampFormat))
	if err != nil {
		return fmt.Errorf("insert alarm: %w", err)
	}
	return nil
}

// StoredEvent is an event row read back from the store.
type StoredEvent struct {
	ID         int64
	CalendarID int64
	ports.CalendarEvent
}

// Events lists events ordered by start time.
func (s *Store) Events(ctx context.Context) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, calendar_id, title, dtstart, dtend, location, timezone FROM events ORDER BY dtstart, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var (
			ev         StoredEvent
			start, end int64
		)
		if err := rows.Scan(&ev.ID, &ev.CalendarID, &ev.Title, &start, &end, &ev.Location, &ev.TimeZone); err != nil {
			return nil, err
		}
		loc := time.UTC
		if l, err := time.LoadLocation(ev.TimeZone); err == nil {
			loc = l
		}
		ev.Start = time.UnixMilli(start).In(loc)
		ev.End = time.UnixMilli(end).In(loc)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ContactRow is one data row of a stored contact.
type ContactRow struct {
	RawContactID int64
	Kind         string
	Value        string
	Type         string
}

// ContactRows lists every contact data row.
func (s *Store) ContactRows(ctx context.Context) ([]ContactRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT raw_contact_id, kind, value, type FROM contact_data ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactRow
	for rows.Next() {
		var r ContactRow
		if err := rows.Scan(&r.RawContactID, &r.Kind, &r.Value, &r.Type); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Alarms lists scheduled alarms.
func (s *Store) Alarms(ctx context.Context) ([]ports.Alarm, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, hour, minute FROM alarms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.Alarm
	for rows.Next() {
		var a ports.Alarm
		if err := rows.Scan(&a.Label, &a.Hour, &a.Minute); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var (
	_ ports.Calendar       = (*Store)(nil)
	_ ports.ContactBook    = (*Store)(nil)
	_ ports.AlarmScheduler = (*Store)(nil)
)
