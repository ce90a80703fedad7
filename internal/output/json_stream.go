package output

import (
	"encoding/json"
	"io"

	"github.com/temirov/codetree/internal/extract"
)

// SchemaVersion identifies the layout of JSON stream records.
const SchemaVersion = 1

type jsonRecord struct {
	Version int `json:"version"`
	extract.Event
}

type jsonStreamRenderer struct {
	encoder        *json.Encoder
	includeSummary bool
}

// NewJSONStreamRenderer writes one JSON object per event, newline delimited.
// The summary is attached to the final "done" record only when includeSummary is set.
func NewJSONStreamRenderer(writer io.Writer, includeSummary bool) StreamRenderer {
	renderer := &jsonStreamRenderer{includeSummary: includeSummary}
	if writer != nil {
		renderer.encoder = json.NewEncoder(writer)
		renderer.encoder.SetEscapeHTML(false)
	}
	return renderer
}

func (renderer *jsonStreamRenderer) Handle(event extract.Event) error {
	if renderer.encoder == nil {
		return nil
	}
	if event.Kind == extract.EventKindDone && !renderer.includeSummary {
		event.Summary = nil
	}
	return renderer.encoder.Encode(jsonRecord{Version: SchemaVersion, Event: event})
}

func (renderer *jsonStreamRenderer) Flush() error {
	return nil
}
