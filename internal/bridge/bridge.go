// Package bridge forwards filesystem change events from the watch registry
// to the GUI's event stream.
package bridge

import (
	"context"
	"log/slog"

	"github.com/filedeckapp/filedeck-server/internal/sse"
	"github.com/filedeckapp/filedeck-server/internal/watcher"
)

// Emitter is the outbound side of the bridge. *sse.Manager satisfies it.
type Emitter interface {
	Emit(event sse.Event)
}

// Bridge pumps change events into the SSE manager. It runs one goroutine
// for the process lifetime, decoupling the lock-holding watcher code from
// GUI delivery latency.
type Bridge struct {
	registry *watcher.Registry
	emitter  Emitter
	logger   *slog.Logger
}

// New creates a bridge between the registry and the event stream.
func New(registry *watcher.Registry, emitter Emitter, logger *slog.Logger) *Bridge {
	return &Bridge{
		registry: registry,
		emitter:  emitter,
		logger:   logger,
	}
}

// Run consumes registry events until ctx is cancelled. Watcher errors are
// logged and dropped; nothing on this path may take down the delivery loop.
func (b *Bridge) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-b.registry.Events():
			if !ok {
				return
			}
			b.emitter.Emit(sse.NewFileChangedEvent(event.Path, event.Type.String()))

		case err, ok := <-b.registry.Errors():
			if !ok {
				return
			}
			b.logger.Warn("file watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}
