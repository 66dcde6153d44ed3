package domain

// EventKind discriminates the normalized events of a provider stream.
type EventKind string

const (
	// EventChunk carries one text increment.
	EventChunk EventKind = "chunk"
	// EventDone marks normal stream termination.
	EventDone EventKind = "done"
	// EventError marks an upstream error record; it ends the stream.
	EventError EventKind = "error"
)

// StreamEvent is one decoded unit of incremental provider output. A stream
// is zero or more chunk events followed by exactly one done or error event;
// adapters synthesize the terminal event when the upstream omits it.
type StreamEvent struct {
	Kind    EventKind
	Text    string
	Message string
}
