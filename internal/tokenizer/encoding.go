package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// encodingCounter counts tokens with a single BPE encoding. label is the model
// or encoding name shown in report summaries.
type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	label    string
}

func (counter encodingCounter) Name() string {
	return counter.label
}

// CountString counts the tokens of one inlined file body. Special-token text in
// source files is counted as ordinary text.
func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("token encoding not loaded")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
