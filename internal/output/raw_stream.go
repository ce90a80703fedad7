package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/codetree/internal/extract"
)

const (
	headerTitleFormat  = "Project Structure and Content for: %s"
	headerRuleWidth    = 60
	branchConnector    = "├── "
	lastConnector      = "└── "
	branchContinuation = "│   "
	lastContinuation   = "    "
	contentGutter      = "| "
	directorySuffix    = "/"

	contentStartFormat   = "--- START: %s ---"
	contentEndFormat     = "--- END: %s ---"
	skippedMarkerFormat  = "[SKIPPED: too large (%d > %d bytes)]"
	readErrorFormat      = "[ERROR reading file: %s]"
	directoryErrorFormat = "[ERROR reading directory: %s]"
)

type rawStreamRenderer struct {
	writer         io.Writer
	includeSummary bool
	// lastByDepth[d] records whether the most recent entry at depth d was the final child of its parent.
	lastByDepth []bool
}

// NewRawStreamRenderer writes the indented text report.
func NewRawStreamRenderer(writer io.Writer, includeSummary bool) StreamRenderer {
	return &rawStreamRenderer{writer: writer, includeSummary: includeSummary}
}

func (renderer *rawStreamRenderer) Handle(event extract.Event) error {
	if renderer.writer == nil {
		return nil
	}
	switch event.Kind {
	case extract.EventKindStart:
		return renderer.writeLines(
			fmt.Sprintf(headerTitleFormat, event.Name),
			strings.Repeat("=", headerRuleWidth),
			"",
		)
	case extract.EventKindDirectory:
		renderer.track(event)
		return renderer.writeLines(renderer.entryPrefix(event.Depth) + event.Name + directorySuffix)
	case extract.EventKindFile:
		renderer.track(event)
		return renderer.writeLines(renderer.entryPrefix(event.Depth) + event.Name)
	case extract.EventKindContentStart:
		return renderer.writeContent(event.Depth, fmt.Sprintf(contentStartFormat, event.Name))
	case extract.EventKindContentLine:
		return renderer.writeContent(event.Depth, event.Line)
	case extract.EventKindContentEnd:
		return renderer.writeContent(event.Depth, fmt.Sprintf(contentEndFormat, event.Name))
	case extract.EventKindSkipped:
		return renderer.writeContent(event.Depth, fmt.Sprintf(skippedMarkerFormat, event.Size, event.Limit))
	case extract.EventKindReadError:
		return renderer.writeContent(event.Depth, fmt.Sprintf(readErrorFormat, event.Reason))
	case extract.EventKindDirectoryError:
		return renderer.writeContent(event.Depth, fmt.Sprintf(directoryErrorFormat, event.Reason))
	case extract.EventKindDone:
		if !renderer.includeSummary || event.Summary == nil {
			return nil
		}
		return renderer.writeLines("", FormatSummaryLine(*event.Summary), FormatCountersLine(*event.Summary))
	default:
		return nil
	}
}

func (renderer *rawStreamRenderer) Flush() error {
	return nil
}

func (renderer *rawStreamRenderer) track(event extract.Event) {
	for len(renderer.lastByDepth) <= event.Depth {
		renderer.lastByDepth = append(renderer.lastByDepth, false)
	}
	renderer.lastByDepth = renderer.lastByDepth[:event.Depth+1]
	renderer.lastByDepth[event.Depth] = event.Last
}

// continuation returns the columns drawn under the ancestors at depths 1 through depth.
func (renderer *rawStreamRenderer) continuation(depth int) string {
	var builder strings.Builder
	for level := 1; level <= depth && level < len(renderer.lastByDepth); level++ {
		if renderer.lastByDepth[level] {
			builder.WriteString(lastContinuation)
		} else {
			builder.WriteString(branchContinuation)
		}
	}
	return builder.String()
}

func (renderer *rawStreamRenderer) entryPrefix(depth int) string {
	if depth == 0 {
		return ""
	}
	connector := branchConnector
	if renderer.lastByDepth[depth] {
		connector = lastConnector
	}
	return renderer.continuation(depth-1) + connector
}

func (renderer *rawStreamRenderer) writeContent(depth int, text string) error {
	return renderer.writeLines(renderer.continuation(depth) + contentGutter + text)
}

func (renderer *rawStreamRenderer) writeLines(lines ...string) error {
	for _, line := range lines {
		if _, err := io.WriteString(renderer.writer, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
