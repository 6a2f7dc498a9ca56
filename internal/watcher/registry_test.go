package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/filedeckapp/filedeck-server/internal/errors"
)

// fakeBackend records watch mutations and lets tests script failures.
type fakeBackend struct {
	mu        sync.Mutex
	watched   map[string]int
	unwatched []string
	watchErr  error
	events    chan Event
	errs      chan error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		watched: make(map[string]int),
		events:  make(chan Event, 16),
		errs:    make(chan error, 16),
	}
}

func (f *fakeBackend) Watch(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchErr != nil {
		return f.watchErr
	}
	f.watched[path]++
	return nil
}

func (f *fakeBackend) Unwatch(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.watched[path]; !ok {
		return ErrNotWatched
	}
	delete(f.watched, path)
	f.unwatched = append(f.unwatched, path)
	return nil
}

func (f *fakeBackend) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *fakeBackend) Stop() error          { return nil }
func (f *fakeBackend) Events() <-chan Event { return f.events }
func (f *fakeBackend) Errors() <-chan error { return f.errs }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistry_ArmUsesResolver(t *testing.T) {
	backend := newFakeBackend()
	resolved := "/existing/ancestor"
	registry := NewWithBackend(testLogger(), func(string) string { return resolved }, backend)

	err := registry.Arm("/existing/ancestor/missing/leaf")
	require.NoError(t, err)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, 1, backend.watched[resolved])
}

func TestRegistry_ArmFailureIsTyped(t *testing.T) {
	backend := newFakeBackend()
	backend.watchErr = errors.New("inotify limit reached")
	registry := NewWithBackend(testLogger(), nil, backend)

	err := registry.Arm("/some/path")
	require.Error(t, err)

	// An OS rejection must come back as a recoverable typed error.
	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeInternal, domainErr.Code)
}

func TestRegistry_DisarmUnknownPath(t *testing.T) {
	backend := newFakeBackend()
	registry := NewWithBackend(testLogger(), nil, backend)

	err := registry.Disarm("/never/armed")
	require.Error(t, err)

	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeNotWatching, domainErr.Code)
}

func TestRegistry_ArmThenDisarm(t *testing.T) {
	backend := newFakeBackend()
	registry := NewWithBackend(testLogger(), nil, backend)

	require.NoError(t, registry.Arm("/tmp/project"))
	require.NoError(t, registry.Disarm("/tmp/project"))

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.watched)
	assert.Equal(t, []string{"/tmp/project"}, backend.unwatched)
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	backend := newFakeBackend()
	registry := NewWithBackend(testLogger(), nil, backend)

	// Racing arms and disarms must serialize on the registry mutex without
	// deadlocking. Disarm errors are expected when the path is not armed.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = registry.Arm("/tmp/contended")
		}()
		go func() {
			defer wg.Done()
			_ = registry.Disarm("/tmp/contended")
		}()
	}
	wg.Wait()
}

func TestRegistry_EventsPassThrough(t *testing.T) {
	backend := newFakeBackend()
	registry := NewWithBackend(testLogger(), nil, backend)

	want := Event{Type: EventModified, Path: "/tmp/file.txt"}
	backend.events <- want

	got := <-registry.Events()
	assert.Equal(t, want, got)
}
