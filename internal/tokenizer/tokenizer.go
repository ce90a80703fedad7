// Package tokenizer counts the tokens of inlined file content for report summaries.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in a string.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config selects the model whose encoding is used.
type Config struct {
	Model string
}

const (
	// DefaultModel is the model reported when none is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter loads the encoding for cfg.Model and returns the counter with the
// model name to report. A model tiktoken cannot map falls back to cl100k_base,
// and the encoding name is reported instead.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if encoding, encodingError := tiktoken.EncodingForModel(strings.ToLower(model)); encodingError == nil && encoding != nil {
		return encodingCounter{encoding: encoding, label: model}, model, nil
	}

	encoding, encodingError := tiktoken.GetEncoding(defaultEncodingName)
	if encodingError != nil {
		return nil, "", fmt.Errorf("load %s encoding: %w", defaultEncodingName, encodingError)
	}
	return encodingCounter{encoding: encoding, label: defaultEncodingName}, defaultEncodingName, nil
}
