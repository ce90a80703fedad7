// Package clipboard copies finished reports to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility is available on this system.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// CopyFile copies the content of the file at path using copier.
//
// #nosec G304
func CopyFile(copier Copier, path string) error {
	if copier == nil {
		return errors.New("nil clipboard copier")
	}
	content, readError := os.ReadFile(path)
	if readError != nil {
		return fmt.Errorf("read %s for clipboard: %w", path, readError)
	}
	if copyError := copier.Copy(string(content)); copyError != nil {
		return fmt.Errorf("copy %s to clipboard: %w", path, copyError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
