package utils

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrBinaryContent reports data containing NUL bytes.
	ErrBinaryContent = errors.New("binary content (NUL byte found)")
	// ErrInvalidEncoding reports data that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8 text")
)

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	return ValidateText(data) != nil
}

// ValidateText returns nil when data decodes as UTF-8 text without NUL bytes.
func ValidateText(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return ErrBinaryContent
	}
	if !utf8.Valid(data) {
		return ErrInvalidEncoding
	}
	return nil
}

// ScanLines reads reader one line at a time and calls visit for every line with its
// terminator removed. Both "\n" and "\r\n" end a line and a trailing terminator does not
// produce an empty final line. Only the current line is held in memory. A line that
// contains a NUL byte or invalid UTF-8 stops the scan with ErrBinaryContent or
// ErrInvalidEncoding before it is visited.
func ScanLines(reader io.Reader, visit func(line string) error) error {
	bufferedReader := bufio.NewReader(reader)
	for {
		line, readError := bufferedReader.ReadString('\n')
		if readError != nil && !errors.Is(readError, io.EOF) {
			return readError
		}
		if line != "" {
			if validationError := ValidateText([]byte(line)); validationError != nil {
				return validationError
			}
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if visitError := visit(line); visitError != nil {
				return visitError
			}
		}
		if readError != nil {
			return nil
		}
	}
}
