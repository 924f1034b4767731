package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/pkg/clock"
	"github.com/doeshing/scrnstr/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nimage"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestSubscribeEmitsCreatedFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewFSWatcher([]string{dir}, clock.NewFake(now), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Subscribe(ctx)
	require.NoError(t, err)

	target := filepath.Join(dir, "Screenshot_1.png")
	require.NoError(t, os.WriteFile(target, []byte("png"), 0o644))

	select {
	case ev := <-events:
		assert.Equal(t, domain.SourceRef(target), ev.SourceRef)
		assert.Equal(t, now, ev.DetectedAt)
	case <-time.After(5 * time.Second):
		t.Fatal("no capture event received")
	}

	cancel()
	for range events {
	}
}

func TestSubscribeRequiresDirectories(t *testing.T) {
	w := NewFSWatcher(nil, clock.New(), logger.NewNop())
	_, err := w.Subscribe(context.Background())
	assert.Error(t, err)
}

func TestSubscribeMissingDirectory(t *testing.T) {
	w := NewFSWatcher([]string{filepath.Join(t.TempDir(), "missing")}, clock.New(), logger.NewNop())
	_, err := w.Subscribe(context.Background())
	assert.Error(t, err)
}

func TestDirIndexResolve(t *testing.T) {
	dir := t.TempDir()
	x := NewDirIndex(domain.CaptureSettings{WatchDirs: []string{dir}})

	path, err := x.Resolve(domain.SourceRef(filepath.Join(dir, "shots", "Screenshot.png")))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shots", "Screenshot.png"), path)

	_, err = x.Resolve(domain.SourceRef(filepath.Join(dir, "..", "elsewhere.png")))
	assert.Error(t, err)

	_, err = x.Resolve(domain.EmptySourceRef)
	assert.Error(t, err)
}

func TestDirIndexLatest(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "Screenshot_old.png"), base)
	writeFile(t, filepath.Join(dir, "nested", "Screenshot_new.jpg"), base.Add(time.Minute))
	writeFile(t, filepath.Join(dir, ".pending-Screenshot_newest.png"), base.Add(2*time.Minute))
	writeFile(t, filepath.Join(dir, "photo_latest.png"), base.Add(3*time.Minute))
	writeFile(t, filepath.Join(dir, "Screenshot_notes.txt"), base.Add(4*time.Minute))

	x := NewDirIndex(domain.CaptureSettings{WatchDirs: []string{dir}})
	ref, ok, err := x.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.SourceRef(filepath.Join(dir, "nested", "Screenshot_new.jpg")), ref)
}

func TestDirIndexLatestEmpty(t *testing.T) {
	x := NewDirIndex(domain.CaptureSettings{WatchDirs: []string{t.TempDir()}})
	_, ok, err := x.Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirIndexLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Screenshot.png")
	writeFile(t, path, time.Now())
	x := NewDirIndex(domain.CaptureSettings{WatchDirs: []string{dir}})

	data, mimeType, err := x.Load(domain.SourceRef(path))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", mimeType)

	_, _, err = x.Load(domain.SourceRef(filepath.Join(dir, "missing.png")))
	assert.Error(t, err)

	_, _, err = x.Load(domain.EmptySourceRef)
	assert.ErrorIs(t, err, domain.ErrNoSource)
}

func TestMIMETypeFallsBackToContent(t *testing.T) {
	assert.Equal(t, "image/png", MIMEType("capture", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.Equal(t, "image/jpeg", MIMEType("x.JPG", nil))
}
