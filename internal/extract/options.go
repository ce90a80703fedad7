package extract

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/codetree/internal/tokenizer"
	"github.com/temirov/codetree/internal/utils"
)

// Order selects how siblings are ordered in the report.
type Order string

const (
	// OrderSorted lists siblings by name in byte order. Reports are reproducible.
	OrderSorted Order = "sorted"
	// OrderNative keeps the order in which the filesystem enumerates entries.
	// Reports produced this way are not guaranteed to be reproducible.
	OrderNative Order = "native"
)

// ParseOrder validates an order name. An empty name selects OrderSorted.
func ParseOrder(name string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(name))) {
	case "", OrderSorted:
		return OrderSorted, nil
	case OrderNative:
		return OrderNative, nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unsupported order %q (expected %s or %s)", name, OrderSorted, OrderNative)}
	}
}

// ExclusionConfig decides which entries are listed and which files are inlined.
type ExclusionConfig struct {
	// Directories are directory names skipped at every depth.
	Directories []string
	// Files are file names skipped at every depth.
	Files []string
	// Extensions are the suffixes whose content is inlined, matched case-insensitively.
	Extensions []string
	// MaxSize is the largest file size in bytes that is inlined. Zero disables the limit.
	MaxSize int64
	// ExcludePaths are doublestar globs matched against slash-separated paths relative to the root.
	ExcludePaths []string
	// UseGitignore additionally skips entries matched by the root .gitignore file.
	UseGitignore bool
}

// LineRedactor rewrites a content line before it is emitted.
type LineRedactor interface {
	Apply(line string) (string, bool)
}

// Options configures an Extractor.
type Options struct {
	Exclusions ExclusionConfig
	Order      Order
	Redactor   LineRedactor
	// TokenCounter, when set, counts tokens of the emitted content of every inlined file.
	TokenCounter tokenizer.Counter
	TokenModel   string
	// SkipPaths lists files omitted from the report wherever they appear in the tree,
	// compared by identity rather than by name.
	SkipPaths []string
	Warn      func(message string)
}

func (options Options) normalized() (Options, error) {
	normalizedOptions := options
	order, orderError := ParseOrder(string(options.Order))
	if orderError != nil {
		return Options{}, orderError
	}
	normalizedOptions.Order = order

	if options.Exclusions.MaxSize < 0 {
		return Options{}, &ConfigError{Reason: fmt.Sprintf("max size must not be negative, got %d", options.Exclusions.MaxSize)}
	}

	exclusions := options.Exclusions
	exclusions.Directories = utils.DeduplicatePatterns(exclusions.Directories)
	exclusions.Files = utils.DeduplicatePatterns(exclusions.Files)
	exclusions.Extensions = utils.NormalizeExtensions(exclusions.Extensions)
	exclusions.ExcludePaths = utils.DeduplicatePatterns(exclusions.ExcludePaths)
	for _, pattern := range exclusions.ExcludePaths {
		if !doublestar.ValidatePattern(pattern) {
			return Options{}, &ConfigError{Reason: fmt.Sprintf("invalid exclude path pattern %q", pattern)}
		}
	}
	normalizedOptions.Exclusions = exclusions

	if normalizedOptions.Warn == nil {
		normalizedOptions.Warn = func(string) {}
	}
	return normalizedOptions, nil
}
