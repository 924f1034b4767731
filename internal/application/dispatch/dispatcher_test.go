package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/pkg/logger"
	"github.com/doeshing/scrnstr/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubHandler struct {
	mu      sync.Mutex
	calls   int
	fields  []domain.Fields
	sources []domain.SourceRef
	outcome domain.Outcome
	err     error
	panics  bool
}

func (s *stubHandler) Execute(_ context.Context, fields domain.Fields, source domain.SourceRef) (domain.Outcome, error) {
	s.mu.Lock()
	s.calls++
	s.fields = append(s.fields, fields)
	s.sources = append(s.sources, source)
	s.mu.Unlock()
	if s.panics {
		panic("boom")
	}
	return s.outcome, s.err
}

type recordingMessenger struct {
	mu       sync.Mutex
	messages []string
}

func (m *recordingMessenger) Toast(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

func (m *recordingMessenger) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, _ error, fields map[string]interface{}) {
	l.add("error", msg, fields)
}

func (l *recordingLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func TestRunInvokesRegisteredHandler(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	handler := &stubHandler{outcome: domain.Outcome{Message: "Coupon copied: SAVE20"}}
	registry.Register(domain.CategoryCouponCode, handler)
	messenger := &recordingMessenger{}
	d := NewDispatcher(registry, messenger, logger.NewNop())

	d.Run(context.Background(), domain.CategoryCouponCode, domain.NewFields("code", "SAVE20"), "shot.png")

	require.Equal(t, 1, handler.calls)
	assert.Equal(t, "SAVE20", handler.fields[0].Value("code", ""))
	assert.Equal(t, domain.SourceRef("shot.png"), handler.sources[0])
	assert.Equal(t, []string{"Coupon copied: SAVE20"}, messenger.all())
}

func TestUnknownCategoryIsNoop(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	other := &stubHandler{}
	registry.Register(domain.CategoryEvent, other)
	messenger := &recordingMessenger{}
	d := NewDispatcher(registry, messenger, logger.NewNop())

	assert.NotPanics(t, func() {
		d.Run(context.Background(), "meme", domain.NewFields("caption", "lol"), domain.EmptySourceRef)
	})

	assert.Zero(t, other.calls)
	assert.Empty(t, messenger.all())

	handler, known := registry.Lookup("meme")
	assert.False(t, known)
	assert.NotNil(t, handler)
}

func TestUnknownCategoryIsLoggedAtInfo(t *testing.T) {
	log := &recordingLogger{}
	registry := NewRegistry(log)
	d := NewDispatcher(registry, &recordingMessenger{}, logger.NewNop())

	d.Run(context.Background(), "meme", domain.NewFields("caption", "lol"), "shot.png")

	entry, ok := log.find("info", "no action for category")
	require.True(t, ok)
	assert.Equal(t, "meme", entry.fields["category"])
	assert.Equal(t, "shot.png", entry.fields["source"])
}

func TestHandlerErrorIsIsolated(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	failing := &stubHandler{err: errors.New("calendar provider unavailable")}
	healthy := &stubHandler{outcome: domain.Outcome{Message: "Alarm set: Standup"}}
	registry.Register(domain.CategoryEvent, failing)
	registry.Register(domain.CategoryReminder, healthy)
	messenger := &recordingMessenger{}
	d := NewDispatcher(registry, messenger, logger.NewNop())

	d.Run(context.Background(), domain.CategoryEvent, domain.NewFields(), "")
	d.Run(context.Background(), domain.CategoryReminder, domain.NewFields(), "")

	assert.Equal(t, 1, failing.calls, "no retry")
	assert.Equal(t, 1, healthy.calls)
	assert.Equal(t, []string{
		"Action failed: calendar provider unavailable",
		"Alarm set: Standup",
	}, messenger.all())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	registry.Register(domain.CategoryContact, &stubHandler{panics: true})
	messenger := &recordingMessenger{}
	d := NewDispatcher(registry, messenger, logger.NewNop())

	assert.NotPanics(t, func() {
		d.Run(context.Background(), domain.CategoryContact, domain.NewFields(), "")
	})
	require.Len(t, messenger.all(), 1)
	assert.Contains(t, messenger.all()[0], "panic: boom")
}

func TestDispatchIsAsyncAndWaitable(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	handler := &stubHandler{}
	registry.Register(domain.CategoryMovie, handler)
	d := NewDispatcher(registry, nil, logger.NewNop())

	for i := 0; i < 5; i++ {
		d.Dispatch(context.Background(), domain.CategoryMovie, domain.NewFields("title", "Heat"), "")
	}
	d.Wait()

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, 5, handler.calls)
}

func TestInvokeWrapsHandlerErrors(t *testing.T) {
	d := NewDispatcher(NewRegistry(logger.NewNop()), nil, logger.NewNop())
	_, err := d.invoke(context.Background(), &stubHandler{err: domain.ErrNoSource}, domain.NewFields(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHandler)
	assert.ErrorIs(t, err, domain.ErrNoSource)
}

func TestRegistryCategories(t *testing.T) {
	registry := NewRegistry(logger.NewNop())
	registry.RegisterAll(map[string]ports.ActionHandler{
		domain.CategoryTravel: &stubHandler{},
		domain.CategoryEvent:  &stubHandler{},
	})
	assert.Equal(t, []string{domain.CategoryEvent, domain.CategoryTravel}, registry.Categories())
}
