package watcher

import "context"

// Backend is the OS-level change-notification facility behind the registry.
// The production implementation wraps fsnotify; tests substitute a scripted
// double.
type Backend interface {
	// Watch arms path. Directories are watched recursively: every nested
	// directory gets a watch, and directories created later under the root
	// are picked up automatically.
	Watch(path string) error

	// Unwatch disarms a previously armed root and every watch beneath it.
	// Returns ErrNotWatched if the root was never armed.
	Unwatch(path string) error

	// Start runs the delivery loop. It blocks until the context is
	// cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop releases the OS handle and closes the event channels.
	Stop() error

	// Events returns the channel of filesystem change events.
	Events() <-chan Event

	// Errors returns the channel of delivery errors.
	Errors() <-chan error
}
