// Package sse implements Server-Sent Events for pushing filesystem change
// notifications to the shell front end.
package sse

import (
	"time"
)

// The shell's webview holds one long-lived stream per window; all commands
// flow request/response the other way, so SSE (not WebSockets) is enough.

// EventType represents the type of SSE event.
type EventType string

const (
	// EventFileChanged reports a filesystem change under an armed watch.
	EventFileChanged EventType = "file.changed"

	// EventWatchArmed reports a watch target becoming active.
	EventWatchArmed EventType = "watch.armed"
	// EventWatchDisarmed reports a watch target being removed.
	EventWatchDisarmed EventType = "watch.disarmed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// FileChangedData is the payload for file change events.
type FileChangedData struct {
	OccurredAt time.Time `json:"occurred_at"`
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
}

// WatchData is the payload for watch lifecycle events.
type WatchData struct {
	Path string `json:"path"`
}

// HeartbeatData is the payload for heartbeat events.
type HeartbeatData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewFileChangedEvent builds a file change notification.
func NewFileChangedEvent(path, kind string) Event {
	now := time.Now()
	return Event{
		Type:      EventFileChanged,
		Timestamp: now,
		Data: FileChangedData{
			OccurredAt: now,
			Path:       path,
			Kind:       kind,
		},
	}
}

// NewWatchArmedEvent builds a watch armed notification.
func NewWatchArmedEvent(path string) Event {
	return Event{
		Type:      EventWatchArmed,
		Timestamp: time.Now(),
		Data:      WatchData{Path: path},
	}
}

// NewWatchDisarmedEvent builds a watch disarmed notification.
func NewWatchDisarmedEvent(path string) Event {
	return Event{
		Type:      EventWatchDisarmed,
		Timestamp: time.Now(),
		Data:      WatchData{Path: path},
	}
}

// NewHeartbeatEvent builds a keepalive event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Timestamp: now,
		Data:      HeartbeatData{ServerTime: now},
	}
}
