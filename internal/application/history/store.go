// Package history retains the bounded, newest-first list of recent
// classifications.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Store keeps at most Capacity records under a single key of a
// ports.KeyValueStore, encoded as a JSON array (newest first).
type Store struct {
	kv       ports.KeyValueStore
	key      string
	capacity int
	logger   ports.Logger
	mu       sync.Mutex
}

// NewStore builds a history store with the default capacity and key.
func NewStore(kv ports.KeyValueStore, logger ports.Logger) *Store {
	return &Store{
		kv:       kv,
		key:      domain.HistoryKey,
		capacity: domain.HistoryCapacity,
		logger:   logger,
	}
}

// Add prepends record and truncates anything beyond capacity.
func (s *Store) Add(ctx context.Context, record domain.InterceptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load(ctx)
	next := make([]domain.InterceptRecord, 0, s.capacity)
	next = append(next, record)
	for _, rec := range current {
		if len(next) >= s.capacity {
			break
		}
		next = append(next, rec)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// List returns the current records, newest first.
func (s *Store) List(ctx context.Context) []domain.InterceptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// LastTimestampFor returns the timestamp of the newest record of category.
func (s *Store) LastTimestampFor(ctx context.Context, category string) (time.Time, bool) {
	for _, rec := range s.List(ctx) {
		if rec.Category == category {
			return rec.Timestamp, true
		}
	}
	return time.Time{}, false
}

// RecentlySeen reports whether category was intercepted within window of now.
func (s *Store) RecentlySeen(ctx context.Context, category string, window time.Duration, now time.Time) bool {
	ts, ok := s.LastTimestampFor(ctx, category)
	if !ok {
		return false
	}
	return now.Sub(ts) < window
}

// Clear removes all records.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, s.key)
}

// load never fails: unreadable or corrupt state is an empty history.
func (s *Store) load(ctx context.Context) []domain.InterceptRecord {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("history read failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}
	var records []domain.InterceptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("history corrupt, treating as empty", map[string]interface{}{
			"error": fmt.Errorf("%w: %v", domain.ErrPersistenceCorruption, err).Error(),
		})
		return nil
	}
	if len(records) > s.capacity {
		records = records[:s.capacity]
	}
	return records
}
