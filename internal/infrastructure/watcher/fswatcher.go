// Package watcher turns filesystem activity in the capture directories into
// capture events and answers "what is the newest finished capture" queries.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

const eventBuffer = 64

// FSWatcher emits a CaptureEvent for every file created, written or renamed
// into one of the watched directories. Filtering is left to the subscriber.
type FSWatcher struct {
	dirs   []string
	clock  ports.Clock
	logger ports.Logger
}

// NewFSWatcher watches dirs (non-recursively; new subdirectories are added
// as they appear).
func NewFSWatcher(dirs []string, clock ports.Clock, logger ports.Logger) *FSWatcher {
	return &FSWatcher{dirs: dirs, clock: clock, logger: logger}
}

// Subscribe starts watching. The returned channel closes once ctx is done or
// the underlying watcher fails. Events are dropped when the consumer lags;
// the debounce downstream makes bursts equivalent to a single event.
func (w *FSWatcher) Subscribe(ctx context.Context) (<-chan domain.CaptureEvent, error) {
	if len(w.dirs) == 0 {
		return nil, errors.New("watcher: no capture directories configured")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := fw.Close(); err != nil {
				w.logger.Warn("watcher close failed", map[string]interface{}{"error": err.Error()})
			}
		})
	}

	watched := make(map[string]struct{}, len(w.dirs))
	for _, dir := range w.dirs {
		dir = filepath.Clean(dir)
		if err := fw.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("watcher: watch %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
		w.logger.Info("watching capture directory", map[string]interface{}{"dir": dir})
	}

	events := make(chan domain.CaptureEvent, eventBuffer)
	go func() {
		defer close(events)
		defer closeWatcher()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", map[string]interface{}{"error": err.Error()})
			case evt, ok := <-fw.Events:
				if !ok {
					return
				}
				if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if evt.Has(fsnotify.Create) {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := fw.Add(dir); err != nil {
								w.logger.Warn("watch subdirectory failed", map[string]interface{}{"dir": dir, "error": err.Error()})
							} else {
								watched[dir] = struct{}{}
							}
						}
						continue
					}
				}
				ev := domain.CaptureEvent{SourceRef: domain.SourceRef(evt.Name), DetectedAt: w.clock.Now()}
				select {
				case events <- ev:
				default:
					w.logger.Debug("capture event dropped", map[string]interface{}{"path": evt.Name})
				}
			}
		}
	}()
	return events, nil
}

var _ ports.CaptureSource = (*FSWatcher)(nil)
