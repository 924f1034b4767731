package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/scrnstr/internal/ports"
)

func exerciseStore(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "recent_intercepts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "recent_intercepts", []byte(`[{"category":"event"}]`)))
	require.NoError(t, store.Put(ctx, "recent_intercepts", []byte(`[]`)))

	value, ok, err := store.Get(ctx, "recent_intercepts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(value))

	require.NoError(t, store.Delete(ctx, "recent_intercepts"))
	require.NoError(t, store.Delete(ctx, "recent_intercepts"))
	_, ok, err = store.Get(ctx, "recent_intercepts")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(t.TempDir())
	defer store.Close()
	require.False(t, store.Degraded())
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	first := NewSQLiteStore(dir)
	require.NoError(t, first.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(dir)
	defer second.Close()
	value, ok, err := second.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(value))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, NewFileStore(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Name()), "temporary files are cleaned up")
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())
	assert.Error(t, store.Put(context.Background(), "../escape", []byte("x")))
	_, _, err := store.Get(context.Background(), "a/b")
	assert.Error(t, err)
}
