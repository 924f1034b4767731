// Package notify is the persistent notification channel. Posted
// notifications and their action triggers live on disk so a separate
// process (scrnstr act) can pick a trigger up after the watcher posted it.
package notify

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/peterbourgon/diskv/v3"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

const (
	notificationsBucket = "notifications"
	triggersBucket      = "triggers"
)

// ErrNoTrigger is returned by Take when nothing is pending.
var ErrNoTrigger = errors.New("no pending action")

type record struct {
	ID        int                `json:"id"`
	Title     string             `json:"title"`
	Text      string             `json:"text"`
	Accent    domain.AccentColor `json:"accent"`
	Ongoing   bool               `json:"ongoing"`
	Progress  bool               `json:"progress"`
	TriggerID string             `json:"trigger_id,omitempty"`
	PostedAt  time.Time          `json:"posted_at"`
}

// Board stores notifications by id and an outbox of action triggers.
type Board struct {
	d       *diskv.Diskv
	clock   ports.Clock
	mu      sync.Mutex
	entropy io.Reader
}

// NewBoard opens a board rooted at dir. Reads are uncached because other
// processes mutate the same tree.
func NewBoard(dir string, clock ports.Clock) *Board {
	return &Board{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
		}),
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Post shows n under id, replacing whatever was there. A trigger attached to
// n is written to the outbox; the replaced notification's trigger is dropped.
func (b *Board) Post(id int, n domain.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.cancelLocked(id); err != nil {
		return err
	}
	rec := record{
		ID:       id,
		Title:    n.Title,
		Text:     n.Text,
		Accent:   n.Accent,
		Ongoing:  n.Ongoing,
		Progress: n.Progress,
		PostedAt: b.clock.Now(),
	}
	if n.Trigger != nil {
		trigger := *n.Trigger
		if trigger.ID == "" {
			tid, err := ulid.New(ulid.Timestamp(b.clock.Now()), b.entropy)
			if err != nil {
				return fmt.Errorf("trigger id: %w", err)
			}
			trigger.ID = strings.ToLower(tid.String())
		}
		payload, err := json.Marshal(trigger)
		if err != nil {
			return fmt.Errorf("encode trigger: %w", err)
		}
		if err := b.d.Write(triggerKey(trigger.ID), payload); err != nil {
			return fmt.Errorf("write trigger: %w", err)
		}
		rec.TriggerID = trigger.ID
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := b.d.Write(notificationKey(id), payload); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// Cancel removes the notification under id and its pending trigger.
func (b *Board) Cancel(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelLocked(id)
}

func (b *Board) cancelLocked(id int) error {
	rec, ok, err := b.readRecord(id)
	if err != nil || !ok {
		if err != nil {
			// A corrupt record is replaced rather than blocking the channel.
			_ = b.d.Erase(notificationKey(id))
		}
		return nil
	}
	if rec.TriggerID != "" {
		if err := eraseIfPresent(b.d, triggerKey(rec.TriggerID)); err != nil {
			return err
		}
	}
	return eraseIfPresent(b.d, notificationKey(id))
}

// Current returns the notification shown under id.
func (b *Board) Current(id int) (domain.Notification, bool, error) {
	rec, ok, err := b.readRecord(id)
	if err != nil || !ok {
		return domain.Notification{}, false, err
	}
	n := domain.Notification{
		Title:    rec.Title,
		Text:     rec.Text,
		Accent:   rec.Accent,
		Ongoing:  rec.Ongoing,
		Progress: rec.Progress,
	}
	if rec.TriggerID != "" {
		if trigger, ok, err := b.readTrigger(rec.TriggerID); err == nil && ok {
			n.Trigger = &trigger
		}
	}
	return n, true, nil
}

// Pending lists outbox triggers, oldest first.
func (b *Board) Pending(ctx context.Context) ([]domain.ActionTrigger, error) {
	var out []domain.ActionTrigger
	for key := range b.d.KeysPrefix(triggersBucket+"-", ctx.Done()) {
		id := strings.TrimPrefix(key, triggersBucket+"-")
		trigger, ok, err := b.readTrigger(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, trigger)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Take removes and returns the trigger with the given id, or the newest
// pending trigger when id is empty. The notification carrying it is
// cleared as well.
func (b *Board) Take(ctx context.Context, id string) (domain.ActionTrigger, error) {
	if id == "" {
		pending, err := b.Pending(ctx)
		if err != nil {
			return domain.ActionTrigger{}, err
		}
		if len(pending) == 0 {
			return domain.ActionTrigger{}, ErrNoTrigger
		}
		id = pending[len(pending)-1].ID
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	trigger, ok, err := b.readTrigger(id)
	if err != nil {
		return domain.ActionTrigger{}, err
	}
	if !ok {
		return domain.ActionTrigger{}, fmt.Errorf("%w: %s", ErrNoTrigger, id)
	}
	if err := eraseIfPresent(b.d, triggerKey(id)); err != nil {
		return domain.ActionTrigger{}, err
	}
	for key := range b.d.KeysPrefix(notificationsBucket+"-", ctx.Done()) {
		n, err := strconv.Atoi(strings.TrimPrefix(key, notificationsBucket+"-"))
		if err != nil {
			continue
		}
		if rec, ok, err := b.readRecord(n); err == nil && ok && rec.TriggerID == id {
			_ = eraseIfPresent(b.d, key)
		}
	}
	return trigger, nil
}

func (b *Board) readRecord(id int) (record, bool, error) {
	raw, err := b.d.Read(notificationKey(id))
	if errors.Is(err, os.ErrNotExist) {
		return record{}, false, nil
	}
	if err != nil {
		return record{}, false, err
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, false, fmt.Errorf("decode notification %d: %w", id, err)
	}
	return rec, true, nil
}

func (b *Board) readTrigger(id string) (domain.ActionTrigger, bool, error) {
	raw, err := b.d.Read(triggerKey(id))
	if errors.Is(err, os.ErrNotExist) {
		return domain.ActionTrigger{}, false, nil
	}
	if err != nil {
		return domain.ActionTrigger{}, false, err
	}
	var trigger domain.ActionTrigger
	if err := json.Unmarshal(raw, &trigger); err != nil {
		return domain.ActionTrigger{}, false, fmt.Errorf("decode trigger %s: %w", id, err)
	}
	return trigger, true, nil
}

func eraseIfPresent(d *diskv.Diskv, key string) error {
	if err := d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func notificationKey(id int) string {
	return notificationsBucket + "-" + strconv.Itoa(id)
}

func triggerKey(id string) string {
	return triggersBucket + "-" + id
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(pathKey.Path, "-") + "-" + pathKey.FileName
}

var _ ports.NotificationSurface = (*Board)(nil)
