package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codetree/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	if !strings.Contains(string(content), "extract:") {
		t.Fatalf("unexpected configuration content: %s", string(content))
	}
}

func TestInitializedTemplateLoadsWithDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	workingDirectory := t.TempDir()
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory}); err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loaded.Extract.Output != DefaultOutputFile {
		t.Fatalf("expected output %s, got %s", DefaultOutputFile, loaded.Extract.Output)
	}
	if loaded.Extract.Paths.MaxSize == nil || *loaded.Extract.Paths.MaxSize != DefaultMaxSize {
		t.Fatalf("expected max size %d", DefaultMaxSize)
	}
	if strings.Join(loaded.Extract.Paths.ExcludeDirectories, " ") != strings.Join(DefaultExcludedDirectories(), " ") {
		t.Fatalf("template directories diverge from defaults: %v", loaded.Extract.Paths.ExcludeDirectories)
	}
	if strings.Join(loaded.Extract.Paths.ExcludeFiles, " ") != strings.Join(DefaultExcludedFiles(), " ") {
		t.Fatalf("template files diverge from defaults: %v", loaded.Extract.Paths.ExcludeFiles)
	}
	if strings.Join(loaded.Extract.Paths.Extensions, " ") != strings.Join(DefaultExtensions(), " ") {
		t.Fatalf("template extensions diverge from defaults: %v", loaded.Extract.Paths.Extensions)
	}
	if loaded.Extract.Redaction.Placeholder != "[REDACTED]" {
		t.Fatalf("unexpected placeholder %q", loaded.Extract.Redaction.Placeholder)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(homeDir, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected configuration at %s, got %s", expectedPath, path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected forced overwrite to succeed: %v", err)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: "remote", WorkingDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for unsupported target")
	}
}
