package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/pkg/logger"
)

type memKV struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
}

func newMemKV() *memKV {
	return &memKV{values: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func record(category, title string, ts time.Time) domain.InterceptRecord {
	return domain.InterceptRecord{Category: category, Title: title, Timestamp: ts}
}

func TestAddKeepsNewestThree(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemKV(), logger.NewNop())
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third", "fourth"} {
		require.NoError(t, store.Add(ctx, record("event", title, base.Add(time.Duration(i)*time.Minute))))
	}

	got := store.List(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "fourth", got[0].Title)
	assert.Equal(t, "third", got[1].Title)
	assert.Equal(t, "second", got[2].Title)
	for _, rec := range got {
		assert.NotEqual(t, "first", rec.Title)
	}
}

func TestLastTimestampFor(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemKV(), logger.NewNop())
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, ok := store.LastTimestampFor(ctx, domain.CategoryFoodBill)
	assert.False(t, ok, "empty history has no timestamp")

	require.NoError(t, store.Add(ctx, record(domain.CategoryFoodBill, "old bill", base)))
	require.NoError(t, store.Add(ctx, record(domain.CategoryFoodBill, "new bill", base.Add(time.Hour))))
	require.NoError(t, store.Add(ctx, record(domain.CategoryMovie, "film", base.Add(2*time.Hour))))

	ts, ok := store.LastTimestampFor(ctx, domain.CategoryFoodBill)
	require.True(t, ok)
	assert.True(t, ts.Equal(base.Add(time.Hour)))

	_, ok = store.LastTimestampFor(ctx, domain.CategoryEvent)
	assert.False(t, ok)
}

func TestRecentlySeen(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemKV(), logger.NewNop())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Add(ctx, record(domain.CategoryMovie, "film", now.Add(-2*time.Minute))))

	assert.True(t, store.RecentlySeen(ctx, domain.CategoryMovie, domain.RecentCategoryWindow, now))
	assert.False(t, store.RecentlySeen(ctx, domain.CategoryMovie, time.Minute, now))
	assert.False(t, store.RecentlySeen(ctx, domain.CategoryEvent, domain.RecentCategoryWindow, now))
}

func TestCorruptHistoryIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.values[domain.HistoryKey] = []byte("{not json")
	store := NewStore(kv, logger.NewNop())

	assert.Empty(t, store.List(ctx))

	require.NoError(t, store.Add(ctx, record("event", "fresh", time.Now())))
	got := store.List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Title)
}

func TestReadErrorIsEmpty(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk gone")
	store := NewStore(kv, logger.NewNop())
	assert.Empty(t, store.List(context.Background()))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemKV(), logger.NewNop())
	require.NoError(t, store.Add(ctx, record("event", "x", time.Now())))
	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.List(ctx))
}
