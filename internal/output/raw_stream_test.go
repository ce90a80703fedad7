package output_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/output"
)

func renderEvents(t *testing.T, renderer output.StreamRenderer, events []extract.Event) {
	t.Helper()
	for _, event := range events {
		require.NoError(t, renderer.Handle(event))
	}
	require.NoError(t, renderer.Flush())
}

func sampleEvents() []extract.Event {
	summary := extract.Summary{Directories: 3, Files: 3, Bytes: 2048, Inlined: 1, Skipped: 1, Errors: 1, Redacted: 1}
	return []extract.Event{
		{Kind: extract.EventKindStart, Path: "/work/project", Name: "project"},
		{Kind: extract.EventKindDirectory, Path: ".", Name: "project", Depth: 0, Last: true},
		{Kind: extract.EventKindFile, Path: "README.md", Name: "README.md", Depth: 1},
		{Kind: extract.EventKindContentStart, Path: "README.md", Name: "README.md", Depth: 1},
		{Kind: extract.EventKindContentLine, Path: "README.md", Name: "README.md", Depth: 1, Line: "# Title"},
		{Kind: extract.EventKindContentLine, Path: "README.md", Name: "README.md", Depth: 1, Line: "[REDACTED]", Redacted: true},
		{Kind: extract.EventKindContentEnd, Path: "README.md", Name: "README.md", Depth: 1},
		{Kind: extract.EventKindDirectory, Path: "locked", Name: "locked", Depth: 1},
		{Kind: extract.EventKindDirectoryError, Path: "locked", Name: "locked", Depth: 1, Reason: "permission denied"},
		{Kind: extract.EventKindDirectory, Path: "src", Name: "src", Depth: 1, Last: true},
		{Kind: extract.EventKindFile, Path: "src/data.json", Name: "data.json", Depth: 2, Size: 600000},
		{Kind: extract.EventKindSkipped, Path: "src/data.json", Name: "data.json", Depth: 2, Size: 600000, Limit: 500000},
		{Kind: extract.EventKindFile, Path: "src/blob.txt", Name: "blob.txt", Depth: 2, Last: true},
		{Kind: extract.EventKindReadError, Path: "src/blob.txt", Name: "blob.txt", Depth: 2, Last: true, Reason: "content is not valid UTF-8 text"},
		{Kind: extract.EventKindDone, Summary: &summary},
	}
}

func TestRawStreamRendererDrawsTree(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		includeSummary bool
		expected       string
	}{
		{
			name:           "without summary",
			includeSummary: false,
			expected: strings.Join([]string{
				"Project Structure and Content for: project",
				strings.Repeat("=", 60),
				"",
				"project/",
				"├── README.md",
				"│   | --- START: README.md ---",
				"│   | # Title",
				"│   | [REDACTED]",
				"│   | --- END: README.md ---",
				"├── locked/",
				"│   | [ERROR reading directory: permission denied]",
				"└── src/",
				"    ├── data.json",
				"    │   | [SKIPPED: too large (600000 > 500000 bytes)]",
				"    └── blob.txt",
				"        | [ERROR reading file: content is not valid UTF-8 text]",
				"",
			}, "\n"),
		},
		{
			name:           "with summary",
			includeSummary: true,
			expected: strings.Join([]string{
				"Project Structure and Content for: project",
				strings.Repeat("=", 60),
				"",
				"project/",
				"├── README.md",
				"│   | --- START: README.md ---",
				"│   | # Title",
				"│   | [REDACTED]",
				"│   | --- END: README.md ---",
				"├── locked/",
				"│   | [ERROR reading directory: permission denied]",
				"└── src/",
				"    ├── data.json",
				"    │   | [SKIPPED: too large (600000 > 500000 bytes)]",
				"    └── blob.txt",
				"        | [ERROR reading file: content is not valid UTF-8 text]",
				"",
				"Summary: 3 files, 2kb",
				"inlined=1 skipped=1 errors=1 redacted=1",
				"",
			}, "\n"),
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var buffer bytes.Buffer
			renderEvents(t, output.NewRawStreamRenderer(&buffer, testCase.includeSummary), sampleEvents())
			require.Equal(t, testCase.expected, buffer.String())
		})
	}
}

func TestRawStreamRendererRootDirectoryError(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	renderEvents(t, output.NewRawStreamRenderer(&buffer, false), []extract.Event{
		{Kind: extract.EventKindDirectory, Path: ".", Name: "project", Last: true},
		{Kind: extract.EventKindDirectoryError, Path: ".", Name: "project", Last: true, Reason: "permission denied"},
	})
	require.Equal(t, "project/\n| [ERROR reading directory: permission denied]\n", buffer.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRawStreamRendererPropagatesWriteErrors(t *testing.T) {
	t.Parallel()

	renderer := output.NewRawStreamRenderer(failingWriter{}, false)
	err := renderer.Handle(extract.Event{Kind: extract.EventKindDirectory, Name: "project"})
	require.EqualError(t, err, "disk full")
}

func TestFormatSummaryLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		summary  extract.Summary
		expected string
	}{
		{name: "single file", summary: extract.Summary{Files: 1, Bytes: 10}, expected: "Summary: 1 file, 10b"},
		{name: "tokens and model", summary: extract.Summary{Files: 2, Bytes: 2048, Tokens: 42, Model: "gpt-4o"}, expected: "Summary: 2 files, 2kb, 42 tokens (model: gpt-4o)"},
	}
	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, output.FormatSummaryLine(testCase.summary), testCase.name)
	}
}
