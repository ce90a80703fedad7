package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	// directoriesSectionHeader identifies the section listing directory names.
	directoriesSectionHeader = "[directories]"
	// filesSectionHeader identifies the section listing file names.
	filesSectionHeader = "[files]"

	directoryNameSuffix = "/"
)

// IgnoreFilePatterns holds the names listed in a project ignore file.
type IgnoreFilePatterns struct {
	Directories []string
	Files       []string
}

// LoadIgnoreFilePatterns reads a project ignore file. Names under [directories] and
// [files] go to the matching list; before any section header a trailing slash marks
// a directory name. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (IgnoreFilePatterns, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreFilePatterns{}, nil
		}
		return IgnoreFilePatterns{}, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var patterns IgnoreFilePatterns
	currentSectionHeader := ""
	scanner := bufio.NewScanner(fileHandle)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		if strings.HasPrefix(trimmedLine, "[") && strings.HasSuffix(trimmedLine, "]") {
			switch {
			case strings.EqualFold(trimmedLine, directoriesSectionHeader):
				currentSectionHeader = directoriesSectionHeader
			case strings.EqualFold(trimmedLine, filesSectionHeader):
				currentSectionHeader = filesSectionHeader
			default:
				return IgnoreFilePatterns{}, fmt.Errorf("%s:%d: unknown section %s", ignoreFilePath, lineNumber, trimmedLine)
			}
			continue
		}
		name := strings.TrimSuffix(trimmedLine, directoryNameSuffix)
		switch currentSectionHeader {
		case directoriesSectionHeader:
			patterns.Directories = append(patterns.Directories, name)
		case filesSectionHeader:
			patterns.Files = append(patterns.Files, name)
		default:
			if strings.HasSuffix(trimmedLine, directoryNameSuffix) {
				patterns.Directories = append(patterns.Directories, name)
			} else {
				patterns.Files = append(patterns.Files, name)
			}
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreFilePatterns{}, scanError
	}
	return patterns, nil
}
