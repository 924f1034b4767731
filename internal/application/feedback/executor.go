// Package feedback owns the single live feedback session and drives its two
// presentation channels: the ephemeral overlay and the persistent
// notification.
package feedback

import (
	"context"
	"sync"
)

// Executor runs closures on the presentation context. Every mutation of
// session state goes through Post.
type Executor interface {
	Post(fn func())
}

// Loop is a single-goroutine presentation context. Closures posted before
// Run starts are buffered and executed in order.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. Posts after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted closures until ctx is done, then drains what is
// already queued and returns.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			l.drain()
			return nil
		case <-l.wake:
			l.drain()
		}
	}
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
	}
}

// Inline runs closures on the posting goroutine. A Post made while another
// closure is running is queued and executed by the goroutine already
// draining, so closures never overlap and never re-enter.
type Inline struct {
	mu      sync.Mutex
	running bool
	queue   []func()
}

// Post runs fn, or queues it behind the closure currently running.
func (i *Inline) Post(fn func()) {
	i.mu.Lock()
	i.queue = append(i.queue, fn)
	if i.running {
		i.mu.Unlock()
		return
	}
	i.running = true
	for len(i.queue) > 0 {
		next := i.queue[0]
		i.queue = i.queue[1:]
		i.mu.Unlock()
		next()
		i.mu.Lock()
	}
	i.running = false
	i.mu.Unlock()
}
