package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// fsnotifyBackend implements Backend on top of fsnotify. fsnotify watches
// single directories, so recursion is emulated: arming a root walks the
// tree adding a watch per directory, and directory creations under an armed
// root extend the watch set on the fly.
type fsnotifyBackend struct {
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	roots   map[string]struct{} // armed roots
	watched map[string]struct{} // every path added to the fsnotify handle

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// newFsnotifyBackend creates the production backend.
func newFsnotifyBackend(logger *slog.Logger, eventBuffer int) (*fsnotifyBackend, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if eventBuffer <= 0 {
		eventBuffer = 100
	}

	return &fsnotifyBackend{
		logger:  logger,
		watcher: w,
		roots:   make(map[string]struct{}),
		watched: make(map[string]struct{}),
		events:  make(chan Event, eventBuffer),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch arms path recursively.
func (b *fsnotifyBackend) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if info.IsDir() {
		if err := b.watchTree(path); err != nil {
			return err
		}
	} else {
		if err := b.addWatch(path); err != nil {
			return err
		}
	}

	b.roots[path] = struct{}{}
	return nil
}

// Unwatch disarms root and every watch beneath it, keeping watches that a
// different armed root still needs.
func (b *fsnotifyBackend) Unwatch(path string) error {
	path = filepath.Clean(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.roots[path]; !ok {
		return ErrNotWatched
	}
	delete(b.roots, path)

	for p := range b.watched {
		if !underPath(p, path) {
			continue
		}
		if b.coveredByRoot(p) {
			continue
		}
		if err := b.watcher.Remove(p); err != nil {
			// Already gone from the kernel side (e.g. the dir was deleted).
			b.logger.Debug("failed to remove watch", "path", p, "error", err)
		}
		delete(b.watched, p)
	}

	return nil
}

// watchTree adds a watch for dir and every directory below it.
// Callers hold b.mu.
func (b *fsnotifyBackend) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			b.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := b.addWatch(p); err != nil {
			// The root itself must succeed; nested failures are reported
			// through the error channel path by the caller's logger.
			if p == dir {
				return err
			}
			b.logger.Warn("failed to add watch", "path", p, "error", err)
		}
		return nil
	})
}

// addWatch registers p with the fsnotify handle. Callers hold b.mu.
func (b *fsnotifyBackend) addWatch(p string) error {
	if err := b.watcher.Add(p); err != nil {
		return err
	}
	b.watched[p] = struct{}{}
	b.logger.Debug("added watch", "path", p)
	return nil
}

// coveredByRoot reports whether p is still needed by an armed root.
// Callers hold b.mu.
func (b *fsnotifyBackend) coveredByRoot(p string) bool {
	for root := range b.roots {
		if underPath(p, root) {
			return true
		}
	}
	return false
}

// underPath reports whether p equals root or lies beneath it.
func underPath(p, root string) bool {
	if p == root {
		return true
	}
	return strings.HasPrefix(p, root+string(filepath.Separator))
}

// Start runs the delivery loop until the context is cancelled or Stop is
// called.
func (b *fsnotifyBackend) Start(ctx context.Context) error {
	b.wg.Add(1)
	go b.processEvents(ctx)

	select {
	case <-ctx.Done():
	case <-b.done:
	}
	return nil
}

// processEvents pumps raw fsnotify events into the typed event channel.
// This runs on its own goroutine and must never panic: malformed events are
// logged and dropped.
func (b *fsnotifyBackend) processEvents(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			b.handleRawEvent(event)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			select {
			case b.errors <- err:
			default:
				b.logger.Warn("error channel full, dropping watch error", "error", err)
			}
		}
	}
}

// handleRawEvent maps one raw fsnotify event to a typed event.
func (b *fsnotifyBackend) handleRawEvent(event fsnotify.Event) {
	if event.Name == "" {
		b.logger.Debug("dropping malformed event without a path")
		return
	}

	// New directories under an armed root extend the watch set so nested
	// changes keep arriving.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			b.mu.Lock()
			if err := b.watchTree(event.Name); err != nil {
				b.logger.Warn("failed to watch created directory", "path", event.Name, "error", err)
			}
			b.mu.Unlock()
		}
	}

	if event.Op.Has(fsnotify.Remove) {
		b.mu.Lock()
		delete(b.watched, filepath.Clean(event.Name))
		b.mu.Unlock()
	}

	b.emit(Event{Type: mapOp(event.Op), Path: event.Name})
}

// mapOp picks the dominant operation of a raw event.
func mapOp(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated
	case op.Has(fsnotify.Remove):
		return EventRemoved
	case op.Has(fsnotify.Rename):
		return EventRenamed
	case op.Has(fsnotify.Write):
		return EventModified
	case op.Has(fsnotify.Chmod):
		return EventChmod
	default:
		return EventModified
	}
}

// emit sends an event without ever blocking the delivery goroutine.
func (b *fsnotifyBackend) emit(event Event) {
	select {
	case b.events <- event:
	case <-b.done:
	default:
		b.logger.Warn("event channel full, dropping change event",
			"path", event.Path, "type", event.Type.String())
	}
}

// Events returns the events channel.
func (b *fsnotifyBackend) Events() <-chan Event {
	return b.events
}

// Errors returns the errors channel.
func (b *fsnotifyBackend) Errors() <-chan error {
	return b.errors
}

// Stop stops the watcher.
func (b *fsnotifyBackend) Stop() error {
	close(b.done)

	// Close fsnotify watcher, then wait for the delivery goroutine so
	// nothing writes to the channels after they close.
	err := b.watcher.Close()
	b.wg.Wait()

	close(b.events)
	close(b.errors)

	return err
}
