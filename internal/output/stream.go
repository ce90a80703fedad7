// Package output renders extraction events as a text report or as a JSON event stream.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/codetree/internal/extract"
)

// Report formats understood by NewStreamRenderer.
const (
	FormatRaw  = "raw"
	FormatJSON = "json"
)

// StreamRenderer consumes extraction events and writes them to an output sink.
type StreamRenderer interface {
	extract.Sink
	Flush() error
}

// ParseFormat validates a format name. An empty name selects FormatRaw.
func ParseFormat(name string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(name)); normalized {
	case "":
		return FormatRaw, nil
	case FormatRaw, FormatJSON:
		return normalized, nil
	default:
		return "", &extract.ConfigError{Reason: fmt.Sprintf("unsupported format %q (expected %s or %s)", name, FormatRaw, FormatJSON)}
	}
}

// NewStreamRenderer returns the renderer for format writing to writer.
func NewStreamRenderer(format string, writer io.Writer, includeSummary bool) (StreamRenderer, error) {
	parsedFormat, formatError := ParseFormat(format)
	if formatError != nil {
		return nil, formatError
	}
	if parsedFormat == FormatJSON {
		return NewJSONStreamRenderer(writer, includeSummary), nil
	}
	return NewRawStreamRenderer(writer, includeSummary), nil
}
