package extract

import "fmt"

// TraversalError reports a directory whose children could not be listed.
// The directory's subtree is skipped and the walk continues with its siblings.
type TraversalError struct {
	Path string
	Err  error
}

func (err *TraversalError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", err.Path, err.Err)
}

func (err *TraversalError) Unwrap() error {
	return err.Err
}

// ReadError reports a file whose content could not be read or decoded as text.
// The file's content block is replaced by an inline marker.
type ReadError struct {
	Path string
	Err  error
}

func (err *ReadError) Error() string {
	return fmt.Sprintf("reading file %s: %v", err.Path, err.Err)
}

func (err *ReadError) Unwrap() error {
	return err.Err
}

// ConfigError reports an invalid run configuration. It is fatal and raised before traversal starts.
type ConfigError struct {
	Reason string
	Err    error
}

func (err *ConfigError) Error() string {
	if err.Err == nil {
		return err.Reason
	}
	return fmt.Sprintf("%s: %v", err.Reason, err.Err)
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}
