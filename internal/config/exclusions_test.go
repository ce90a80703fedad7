package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func TestLoadIgnoreFilePatternsSections(testingHandle *testing.T) {
	directory := testingHandle.TempDir()
	ignorePath := filepath.Join(directory, utils.IgnoreFileName)
	writeTestFile(testingHandle, ignorePath, `# project specific
coverage/
notes.txt

[directories]
fixtures
generated/

[FILES]
# case-insensitive headers
schema.sql
`)

	patterns, loadError := LoadIgnoreFilePatterns(ignorePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expected := IgnoreFilePatterns{
		Directories: []string{"coverage", "fixtures", "generated"},
		Files:       []string{"notes.txt", "schema.sql"},
	}
	if !reflect.DeepEqual(patterns, expected) {
		testingHandle.Fatalf("unexpected patterns: got %+v want %+v", patterns, expected)
	}
}

func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patterns, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), utils.IgnoreFileName))
	if loadError != nil {
		testingHandle.Fatalf("expected no error for missing file, got %v", loadError)
	}
	if len(patterns.Directories) != 0 || len(patterns.Files) != 0 {
		testingHandle.Fatalf("expected no patterns, got %+v", patterns)
	}
}

func TestLoadIgnoreFilePatternsUnknownSection(testingHandle *testing.T) {
	ignorePath := filepath.Join(testingHandle.TempDir(), utils.IgnoreFileName)
	writeTestFile(testingHandle, ignorePath, "[binary]\nimage.png\n")
	if _, loadError := LoadIgnoreFilePatterns(ignorePath); loadError == nil {
		testingHandle.Fatalf("expected error for unknown section")
	}
}

func TestBuildExclusions(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		paths         PathConfiguration
		ignoreContent string
		expectDirs    []string
		expectFiles   []string
		expectExts    []string
		expectMaxSize int64
	}{
		{
			name:          "defaults",
			expectDirs:    DefaultExcludedDirectories(),
			expectFiles:   DefaultExcludedFiles(),
			expectExts:    DefaultExtensions(),
			expectMaxSize: DefaultMaxSize,
		},
		{
			name:          "configured lists replace defaults",
			paths:         PathConfiguration{ExcludeDirectories: []string{"vendor"}, Extensions: []string{".rs"}, MaxSize: int64Pointer(0)},
			expectDirs:    []string{"vendor"},
			expectFiles:   DefaultExcludedFiles(),
			expectExts:    []string{".rs"},
			expectMaxSize: 0,
		},
		{
			name:          "no defaults",
			paths:         PathConfiguration{NoDefaults: boolPointer(true)},
			expectMaxSize: 0,
		},
		{
			name:          "structure only",
			paths:         PathConfiguration{Extensions: []string{".go"}, StructureOnly: boolPointer(true)},
			expectDirs:    DefaultExcludedDirectories(),
			expectFiles:   DefaultExcludedFiles(),
			expectMaxSize: DefaultMaxSize,
		},
		{
			name:          "ignore file appends names",
			paths:         PathConfiguration{ExcludeDirectories: []string{"vendor"}, ExcludeFiles: []string{"secret.env"}},
			ignoreContent: "[directories]\nfixtures\nvendor\n[files]\nschema.sql\n",
			expectDirs:    []string{"vendor", "fixtures"},
			expectFiles:   []string{"secret.env", "schema.sql"},
			expectExts:    DefaultExtensions(),
			expectMaxSize: DefaultMaxSize,
		},
		{
			name:          "ignore file disabled",
			paths:         PathConfiguration{ExcludeDirectories: []string{"vendor"}, UseIgnoreFile: boolPointer(false)},
			ignoreContent: "[directories]\nfixtures\n",
			expectDirs:    []string{"vendor"},
			expectFiles:   DefaultExcludedFiles(),
			expectExts:    DefaultExtensions(),
			expectMaxSize: DefaultMaxSize,
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			projectDirectory := t.TempDir()
			if testCase.ignoreContent != "" {
				writeTestFile(t, filepath.Join(projectDirectory, utils.IgnoreFileName), testCase.ignoreContent)
			}
			exclusions, err := BuildExclusions(testCase.paths, projectDirectory)
			if err != nil {
				t.Fatalf("BuildExclusions error: %v", err)
			}
			if !reflect.DeepEqual(exclusions.Directories, testCase.expectDirs) {
				t.Fatalf("directories: got %v want %v", exclusions.Directories, testCase.expectDirs)
			}
			if !reflect.DeepEqual(exclusions.Files, testCase.expectFiles) {
				t.Fatalf("files: got %v want %v", exclusions.Files, testCase.expectFiles)
			}
			if !reflect.DeepEqual(exclusions.Extensions, testCase.expectExts) {
				t.Fatalf("extensions: got %v want %v", exclusions.Extensions, testCase.expectExts)
			}
			if exclusions.MaxSize != testCase.expectMaxSize {
				t.Fatalf("max size: got %d want %d", exclusions.MaxSize, testCase.expectMaxSize)
			}
		})
	}
}

func TestBuildExclusionsReportsBrokenIgnoreFile(testingHandle *testing.T) {
	projectDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(projectDirectory, utils.IgnoreFileName), "[unknown]\n")
	_, err := BuildExclusions(PathConfiguration{}, projectDirectory)
	var configError *extract.ConfigError
	if !errors.As(err, &configError) {
		testingHandle.Fatalf("expected ConfigError, got %v", err)
	}
}
