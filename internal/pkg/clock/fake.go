package clock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/scrnstr/internal/ports"
)

// Fake is a manually advanced clock. Timers fire synchronously inside
// Advance, on the caller's goroutine.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*FakeTimer
}

// NewFake starts a fake clock at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) ports.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &FakeTimer{clock: f, at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Sleep advances the clock by d.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Advance(d)
	return ctx.Err()
}

// Advance moves time forward and fires every due timer in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	var due []*FakeTimer
	for _, t := range f.timers {
		if !t.stopped && !t.fired && !t.at.After(f.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

// Timers returns every timer created so far.
func (f *Fake) Timers() []*FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeTimer(nil), f.timers...)
}

// FakeTimer records how it was used.
type FakeTimer struct {
	clock   *Fake
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
	stops   int
}

func (t *FakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stops++
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Stops is the number of Stop calls.
func (t *FakeTimer) Stops() int {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.stops
}

// Fired reports whether the callback ran.
func (t *FakeTimer) Fired() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	return t.fired
}

var _ ports.Clock = (*Fake)(nil)
