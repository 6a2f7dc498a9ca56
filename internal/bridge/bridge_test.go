package bridge

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedeckapp/filedeck-server/internal/sse"
	"github.com/filedeckapp/filedeck-server/internal/watcher"
)

// channelBackend is a scripted watcher backend for bridge tests.
type channelBackend struct {
	events chan watcher.Event
	errs   chan error
}

func newChannelBackend() *channelBackend {
	return &channelBackend{
		events: make(chan watcher.Event, 16),
		errs:   make(chan error, 16),
	}
}

func (c *channelBackend) Watch(string) error   { return nil }
func (c *channelBackend) Unwatch(string) error { return nil }
func (c *channelBackend) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
func (c *channelBackend) Stop() error                  { return nil }
func (c *channelBackend) Events() <-chan watcher.Event { return c.events }
func (c *channelBackend) Errors() <-chan error         { return c.errs }

// collectingEmitter records emitted events.
type collectingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (e *collectingEmitter) Emit(event sse.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *collectingEmitter) snapshot() []sse.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sse.Event(nil), e.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridge_ForwardsChangeEvents(t *testing.T) {
	backend := newChannelBackend()
	registry := watcher.NewWithBackend(testLogger(), nil, backend)
	emitter := &collectingEmitter{}

	b := New(registry, emitter, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	backend.events <- watcher.Event{Type: watcher.EventCreated, Path: "/tmp/a.txt"}
	backend.events <- watcher.Event{Type: watcher.EventRemoved, Path: "/tmp/b.txt"}

	require.Eventually(t, func() bool {
		return len(emitter.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	events := emitter.snapshot()
	assert.Equal(t, sse.EventFileChanged, events[0].Type)

	first, ok := events[0].Data.(sse.FileChangedData)
	require.True(t, ok)
	assert.Equal(t, "/tmp/a.txt", first.Path)
	assert.Equal(t, "created", first.Kind)

	second, ok := events[1].Data.(sse.FileChangedData)
	require.True(t, ok)
	assert.Equal(t, "/tmp/b.txt", second.Path)
	assert.Equal(t, "removed", second.Kind)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop on context cancellation")
	}
}

func TestBridge_WatcherErrorsDoNotStopDelivery(t *testing.T) {
	backend := newChannelBackend()
	registry := watcher.NewWithBackend(testLogger(), nil, backend)
	emitter := &collectingEmitter{}

	b := New(registry, emitter, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	backend.errs <- context.DeadlineExceeded
	backend.events <- watcher.Event{Type: watcher.EventModified, Path: "/tmp/after-error.txt"}

	require.Eventually(t, func() bool {
		return len(emitter.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
