package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/scrnstr/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOverlayLoadingPulses(t *testing.T) {
	out := &syncBuffer{}
	o := NewOverlay(out)
	o.interval = time.Millisecond

	anim, err := o.Attach(domain.OverlayView{Kind: domain.ViewLoading, SessionID: "s1"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Analyzing screenshot...") >= 2
	}, time.Second, time.Millisecond)

	anim.Cancel()
	anim.Cancel()
	o.Detach(false)
}

func TestOverlayResultCard(t *testing.T) {
	out := &syncBuffer{}
	o := NewOverlay(out)
	o.interval = time.Millisecond

	anim, err := o.Attach(domain.OverlayView{
		Kind:        domain.ViewResult,
		Title:       "Dinner at Nopa",
		Subtitle:    "Fri 19:30",
		ActionLabel: "ADD TO CALENDAR",
		Accent:      domain.AccentAmber,
		Countdown:   time.Minute,
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "[a] ADD TO CALENDAR")
	}, time.Second, time.Millisecond)
	anim.Cancel()

	o.SnapBack()
	o.Detach(true)
	o.Detach(true)

	text := out.String()
	assert.Contains(t, text, "Dinner at Nopa")
	assert.Contains(t, text, "Fri 19:30")
	assert.Equal(t, 1, strings.Count(text, "dismissed"))
}

func TestOverlayRejectsUnknownKind(t *testing.T) {
	o := NewOverlay(&syncBuffer{})
	_, err := o.Attach(domain.OverlayView{Kind: "banner"})
	require.Error(t, err)

	o.SnapBack()
}

func TestOverlayToast(t *testing.T) {
	out := &syncBuffer{}
	NewOverlay(out).Toast("Copied")
	assert.Contains(t, out.String(), "Copied")
}

func TestRenderCardSkipsEmptyLines(t *testing.T) {
	card := RenderCard(domain.OverlayView{Title: "WIFI", Thumbnail: "/tmp/shot.png"})
	assert.Contains(t, card, "WIFI")
	assert.Contains(t, card, "/tmp/shot.png")
	assert.Len(t, strings.Split(card, "\n"), 4)
}

type fakeBoard struct {
	posted   map[int]domain.Notification
	canceled []int
}

func (b *fakeBoard) Post(id int, n domain.Notification) error {
	if n.Trigger != nil {
		trigger := *n.Trigger
		trigger.ID = "01j0000000000000000000000a"
		n.Trigger = &trigger
	}
	b.posted[id] = n
	return nil
}

func (b *fakeBoard) Cancel(id int) error {
	b.canceled = append(b.canceled, id)
	delete(b.posted, id)
	return nil
}

func (b *fakeBoard) Current(id int) (domain.Notification, bool, error) {
	n, ok := b.posted[id]
	return n, ok, nil
}

func TestNotifierEchoesStoredTrigger(t *testing.T) {
	board := &fakeBoard{posted: map[int]domain.Notification{}}
	var out bytes.Buffer
	n := NewNotifier(board, &out)

	require.NoError(t, n.Post(1, domain.Notification{Title: "SCRNSTR", Text: "Analyzing", Progress: true}))
	assert.Empty(t, out.String())

	require.NoError(t, n.Post(2, domain.Notification{
		Title:   "Event",
		Text:    "Dinner",
		Trigger: &domain.ActionTrigger{Category: domain.CategoryEvent},
	}))
	assert.Contains(t, out.String(), "Dinner")
	assert.Contains(t, out.String(), "scrnstr act 01j0000000000000000000000a")

	require.NoError(t, n.Cancel(2))
	assert.Equal(t, []int{2}, board.canceled)
}

func TestParseGesture(t *testing.T) {
	tests := []struct {
		line string
		want domain.GestureKind
		ok   bool
	}{
		{"", domain.GestureTapAction, true},
		{" A ", domain.GestureTapAction, true},
		{"d", domain.GestureDrag, true},
		{"s", domain.GestureDrag, true},
		{"o", domain.GestureTapOutside, true},
		{"x", "", false},
	}
	for _, tt := range tests {
		g, ok := ParseGesture(tt.line, 80)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, g.Kind, tt.line)
	}

	swipe, _ := ParseGesture("d", 80)
	assert.Greater(t, -swipe.DeltaY, 80.0)
	snap, _ := ParseGesture("s", 80)
	assert.Less(t, snap.DeltaY, 80.0)
}

type recordingTarget struct {
	state    domain.SessionState
	gestures []domain.Gesture
}

func (r *recordingTarget) State() (domain.SessionState, string) { return r.state, "s1" }

func (r *recordingTarget) HandleGesture(sessionID string, g domain.Gesture) {
	if sessionID == "s1" {
		r.gestures = append(r.gestures, g)
	}
}

func TestReadGestures(t *testing.T) {
	target := &recordingTarget{state: domain.SessionResultShown}
	err := ReadGestures(context.Background(), strings.NewReader("a\nzz\nd\n"), target, 80)
	require.NoError(t, err)
	require.Len(t, target.gestures, 2)
	assert.Equal(t, domain.GestureTapAction, target.gestures[0].Kind)
	assert.Equal(t, domain.GestureDrag, target.gestures[1].Kind)
}

func TestReadGesturesIgnoresInputWithoutResult(t *testing.T) {
	target := &recordingTarget{state: domain.SessionLoading}
	require.NoError(t, ReadGestures(context.Background(), strings.NewReader("a\n"), target, 80))
	assert.Empty(t, target.gestures)
}
