// Package watcher owns the process-wide filesystem watcher and multiplexes
// arm/disarm requests onto it.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/filedeckapp/filedeck-server/internal/errors"
)

// ErrNotWatched is returned by a backend when a disarm names a root that
// was never armed.
var ErrNotWatched = errors.New("watcher: path is not watched")

// Resolver maps a possibly-nonexistent path to the nearest existing
// location before it reaches the OS facility.
type Resolver func(path string) string

// Options configures the registry.
type Options struct {
	// EventBuffer is the change event channel capacity (default 100).
	EventBuffer int
}

// Registry is the single shared watcher for the process. Command handlers
// race to arm and disarm targets; a mutex serializes the backend calls so
// no two watch mutations interleave. The mutex covers only the individual
// OS call, never a whole command, and the backend's delivery goroutine
// runs entirely outside it.
type Registry struct {
	backend Backend
	resolve Resolver
	logger  *slog.Logger
	mu      sync.Mutex
}

// New creates a registry backed by fsnotify. Failure here means the OS
// facility could not be initialized and is the one startup error treated
// as fatal by the caller.
func New(logger *slog.Logger, resolve Resolver, opts Options) (*Registry, error) {
	backend, err := newFsnotifyBackend(logger, opts.EventBuffer)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(logger, resolve, backend), nil
}

// NewWithBackend creates a registry over an explicit backend.
// The test suite uses this to substitute a scripted double.
func NewWithBackend(logger *slog.Logger, resolve Resolver, backend Backend) *Registry {
	if resolve == nil {
		resolve = func(path string) string { return path }
	}
	return &Registry{
		backend: backend,
		resolve: resolve,
		logger:  logger,
	}
}

// Arm resolves path to its nearest existing location and watches it
// recursively. An OS rejection comes back as a typed recoverable error;
// it never terminates the process.
func (r *Registry) Arm(path string) error {
	target := r.resolve(path)
	r.logger.Info("arming watch", "requested", path, "target", target)

	r.mu.Lock()
	err := r.backend.Watch(target)
	r.mu.Unlock()

	if err != nil {
		return watchError(err, target)
	}
	return nil
}

// Disarm resolves path and stops watching it. Disarming a root that was
// never armed reports NotWatching so the GUI can tell the edge case apart
// from success.
func (r *Registry) Disarm(path string) error {
	target := r.resolve(path)
	r.logger.Info("disarming watch", "requested", path, "target", target)

	r.mu.Lock()
	err := r.backend.Unwatch(target)
	r.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrNotWatched) {
			return apperrors.NotWatchingf("path is not being watched: %s", target)
		}
		return watchError(err, target)
	}
	return nil
}

// Start runs the backend delivery loop until ctx is cancelled.
func (r *Registry) Start(ctx context.Context) error {
	return r.backend.Start(ctx)
}

// Stop releases the OS handle.
func (r *Registry) Stop() error {
	return r.backend.Stop()
}

// Events returns the channel of change events under armed roots.
func (r *Registry) Events() <-chan Event {
	return r.backend.Events()
}

// Errors returns the channel of delivery errors.
func (r *Registry) Errors() <-chan error {
	return r.backend.Errors()
}

// watchError maps a backend failure to a typed domain error.
func watchError(err error, path string) error {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apperrors.FromOS(err, path)
}
