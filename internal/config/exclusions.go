package config

import (
	"fmt"
	"path/filepath"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/utils"
)

// BuildExclusions resolves the exclusion rules for one run over projectDirectory.
// Configured lists replace the defaults; names from the project ignore file are
// appended unless use_ignore is false; no_defaults starts from empty lists.
// structure_only leaves no extension eligible, so nothing is inlined.
func BuildExclusions(paths PathConfiguration, projectDirectory string) (extract.ExclusionConfig, error) {
	useDefaults := !BoolValue(paths.NoDefaults, false)

	exclusions := extract.ExclusionConfig{
		Directories:  pick(paths.ExcludeDirectories, DefaultExcludedDirectories(), useDefaults),
		Files:        pick(paths.ExcludeFiles, DefaultExcludedFiles(), useDefaults),
		Extensions:   pick(paths.Extensions, DefaultExtensions(), useDefaults),
		ExcludePaths: utils.DeduplicatePatterns(paths.ExcludePaths),
		UseGitignore: BoolValue(paths.UseGitignore, false),
	}
	if BoolValue(paths.StructureOnly, false) {
		exclusions.Extensions = nil
	}
	if paths.MaxSize != nil {
		exclusions.MaxSize = *paths.MaxSize
	} else if useDefaults {
		exclusions.MaxSize = DefaultMaxSize
	}

	if BoolValue(paths.UseIgnoreFile, true) {
		ignoreFilePath := filepath.Join(projectDirectory, utils.IgnoreFileName)
		ignorePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return extract.ExclusionConfig{}, &extract.ConfigError{Reason: fmt.Sprintf("loading %s", ignoreFilePath), Err: loadError}
		}
		if len(ignorePatterns.Directories) > 0 {
			exclusions.Directories = utils.DeduplicatePatterns(append(exclusions.Directories, ignorePatterns.Directories...))
		}
		if len(ignorePatterns.Files) > 0 {
			exclusions.Files = utils.DeduplicatePatterns(append(exclusions.Files, ignorePatterns.Files...))
		}
	}
	return exclusions, nil
}

func pick(configured []string, defaults []string, useDefaults bool) []string {
	if len(configured) > 0 {
		return utils.DeduplicatePatterns(configured)
	}
	if useDefaults {
		return defaults
	}
	return nil
}
