package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/codetree/internal/utils"
)

// entryFilter applies exclusion rules in precedence order: exact names,
// path globs, .gitignore, then file identity.
type entryFilter struct {
	directories   map[string]struct{}
	files         map[string]struct{}
	excludePaths  []string
	ignoreMatcher gitignore.IgnoreMatcher
	skipFiles     []os.FileInfo
}

func newEntryFilter(root string, options Options) *entryFilter {
	filter := &entryFilter{
		directories:  make(map[string]struct{}, len(options.Exclusions.Directories)),
		files:        make(map[string]struct{}, len(options.Exclusions.Files)),
		excludePaths: options.Exclusions.ExcludePaths,
	}
	for _, name := range options.Exclusions.Directories {
		filter.directories[name] = struct{}{}
	}
	for _, name := range options.Exclusions.Files {
		filter.files[name] = struct{}{}
	}

	if options.Exclusions.UseGitignore {
		gitIgnorePath := filepath.Join(root, utils.GitIgnoreFileName)
		if _, statError := os.Stat(gitIgnorePath); statError == nil {
			matcher, matcherError := gitignore.NewGitIgnore(gitIgnorePath, root)
			if matcherError != nil {
				options.Warn(fmt.Sprintf("could not parse %s: %v", gitIgnorePath, matcherError))
			} else {
				filter.ignoreMatcher = matcher
			}
		}
	}

	for _, skipPath := range options.SkipPaths {
		if skipPath == "" {
			continue
		}
		skipInfo, statError := os.Stat(skipPath)
		if statError != nil {
			continue
		}
		filter.skipFiles = append(filter.skipFiles, skipInfo)
	}
	return filter
}

// excludesDirectory reports whether a directory and its whole subtree are omitted.
func (filter *entryFilter) excludesDirectory(absolutePath string, relativePath string, name string) bool {
	if _, excluded := filter.directories[name]; excluded {
		return true
	}
	return filter.matchesPath(absolutePath, relativePath, true)
}

// excludesFile reports whether a file is omitted from the listing. A nil info skips
// the identity check.
func (filter *entryFilter) excludesFile(absolutePath string, relativePath string, name string, info os.FileInfo) bool {
	if _, excluded := filter.files[name]; excluded {
		return true
	}
	if filter.matchesPath(absolutePath, relativePath, false) {
		return true
	}
	if info == nil {
		return false
	}
	for _, skipInfo := range filter.skipFiles {
		if os.SameFile(skipInfo, info) {
			return true
		}
	}
	return false
}

func (filter *entryFilter) matchesPath(absolutePath string, relativePath string, isDirectory bool) bool {
	for _, pattern := range filter.excludePaths {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
	}
	if filter.ignoreMatcher != nil && filter.ignoreMatcher.Match(absolutePath, isDirectory) {
		return true
	}
	return false
}
