package extract

// EventKind identifies the report element an Event describes.
type EventKind string

const (
	EventKindStart          EventKind = "start"
	EventKindDirectory      EventKind = "directory"
	EventKindDirectoryError EventKind = "directory_error"
	EventKindFile           EventKind = "file"
	EventKindContentStart   EventKind = "content_start"
	EventKindContentLine    EventKind = "content_line"
	EventKindContentEnd     EventKind = "content_end"
	EventKindSkipped        EventKind = "skipped"
	EventKindReadError      EventKind = "read_error"
	EventKindDone           EventKind = "done"
)

// Event is one element of the report, emitted in pre-order.
//
// Depth is 0 for the root directory. Last is true when the entry is the final
// child emitted for its parent. Content events share the Depth and Last values
// of the file they belong to.
type Event struct {
	Kind     EventKind `json:"kind"`
	Path     string    `json:"path,omitempty"`
	Name     string    `json:"name,omitempty"`
	Depth    int       `json:"depth"`
	Last     bool      `json:"last,omitempty"`
	Size     int64     `json:"size,omitempty"`
	Limit    int64     `json:"limit,omitempty"`
	Line     string    `json:"line,omitempty"`
	Redacted bool      `json:"redacted,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Summary  *Summary  `json:"summary,omitempty"`
}

// Sink receives report events in order. Returning an error aborts the extraction.
type Sink interface {
	Handle(event Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event Event) error

// Handle calls the function.
func (function SinkFunc) Handle(event Event) error {
	return function(event)
}

// Summary aggregates counters for a finished extraction.
type Summary struct {
	Directories int    `json:"directories"`
	Files       int    `json:"files"`
	Bytes       int64  `json:"bytes"`
	Inlined     int    `json:"inlined"`
	Skipped     int    `json:"skipped"`
	Errors      int    `json:"errors"`
	Redacted    int    `json:"redacted"`
	Tokens      int    `json:"tokens,omitempty"`
	Model       string `json:"model,omitempty"`
}
