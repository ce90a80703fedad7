// Package utils contains general helper functions used across codetree.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names shared across the project.
const (
	// IgnoreFileName is the name of the per-project exclusion file.
	IgnoreFileName = ".codetreeignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".codetree.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codetree"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
)

const (
	extensionSeparator   = "."
	pathSegmentSeparator = "/"
)

// DeduplicatePatterns removes duplicate and blank values from a slice while preserving order.
// Values are trimmed before comparison.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; exists {
			continue
		}
		encounteredPatterns[trimmedPattern] = struct{}{}
		result = append(result, trimmedPattern)
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the forward-slash path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails and "." when both resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// JoinRelativePath appends name to a forward-slash relative directory path.
func JoinRelativePath(directory, name string) string {
	if directory == "" || directory == "." {
		return name
	}
	return directory + pathSegmentSeparator + name
}

// NormalizeExtensions lower-cases extensions and guarantees a leading dot.
// Blank and duplicate values are dropped.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.ToLower(strings.TrimSpace(extension))
		if trimmed == "" || trimmed == extensionSeparator {
			continue
		}
		if !strings.HasPrefix(trimmed, extensionSeparator) {
			trimmed = extensionSeparator + trimmed
		}
		normalized = append(normalized, trimmed)
	}
	return DeduplicatePatterns(normalized)
}

// HasAnySuffixFold reports whether name ends with one of the lower-case suffixes, ignoring case.
func HasAnySuffixFold(name string, lowerSuffixes []string) bool {
	lowerName := strings.ToLower(name)
	for _, suffix := range lowerSuffixes {
		if strings.HasSuffix(lowerName, suffix) {
			return true
		}
	}
	return false
}
