package watcher

// EventType represents the kind of filesystem change.
type EventType int

const (
	// EventCreated is emitted when a new file or directory appears.
	EventCreated EventType = iota
	// EventModified is emitted when an existing file changes.
	EventModified
	// EventRemoved is emitted when a file or directory is deleted.
	EventRemoved
	// EventRenamed is emitted when a file or directory is renamed away.
	EventRenamed
	// EventChmod is emitted when attributes change.
	EventChmod
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	case EventRenamed:
		return "renamed"
	case EventChmod:
		return "chmod"
	default:
		return "unknown"
	}
}

// Event is a single filesystem change under an armed root.
//
// Path is the primary affected path. The underlying facility reports one
// path per raw event; rename pairs arrive as separate renamed/created
// events rather than a single multi-path record.
type Event struct {
	Type EventType
	Path string
}
