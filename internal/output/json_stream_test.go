package output_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/output"
)

type decodedRecord struct {
	Version int               `json:"version"`
	Kind    extract.EventKind `json:"kind"`
	Path    string            `json:"path"`
	Line    string            `json:"line"`
	Summary *extract.Summary  `json:"summary"`
}

func decodeRecords(t *testing.T, data []byte) []decodedRecord {
	t.Helper()
	var records []decodedRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var record decodedRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record), scanner.Text())
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestJSONStreamRendererWritesOneRecordPerEvent(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	events := sampleEvents()
	renderEvents(t, output.NewJSONStreamRenderer(&buffer, true), events)

	records := decodeRecords(t, buffer.Bytes())
	require.Len(t, records, len(events))
	for index, record := range records {
		require.Equal(t, output.SchemaVersion, record.Version)
		require.Equal(t, events[index].Kind, record.Kind)
	}
	require.Equal(t, "# Title", records[4].Line)
	require.NotNil(t, records[len(records)-1].Summary)
	require.Equal(t, 3, records[len(records)-1].Summary.Files)
}

func TestJSONStreamRendererOmitsSummaryWhenDisabled(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	renderEvents(t, output.NewJSONStreamRenderer(&buffer, false), sampleEvents())

	records := decodeRecords(t, buffer.Bytes())
	require.Nil(t, records[len(records)-1].Summary)
}

func TestNewStreamRendererRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := output.NewStreamRenderer("xml", &bytes.Buffer{}, false)
	var configError *extract.ConfigError
	require.ErrorAs(t, err, &configError)

	renderer, err := output.NewStreamRenderer("", &bytes.Buffer{}, false)
	require.NoError(t, err)
	require.NotNil(t, renderer)
}
