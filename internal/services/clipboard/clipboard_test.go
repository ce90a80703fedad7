package clipboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type recordingCopier struct {
	copied string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = text
	return copier.err
}

func TestCopyFile(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "code_structure.txt")
	if err := os.WriteFile(reportPath, []byte("project/\n"), 0o600); err != nil {
		t.Fatalf("write report: %v", err)
	}

	copier := &recordingCopier{}
	if err := CopyFile(copier, reportPath); err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}
	if copier.copied != "project/\n" {
		t.Fatalf("unexpected clipboard content %q", copier.copied)
	}

	failing := &recordingCopier{err: ErrUnavailable}
	if err := CopyFile(failing, reportPath); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := CopyFile(copier, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing report")
	}
	if err := CopyFile(nil, reportPath); err == nil {
		t.Fatalf("expected error for nil copier")
	}
}
