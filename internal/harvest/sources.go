// Package harvest fetches web pages, reduces them to plain text or Markdown and
// stores the result as a JSON knowledge base keyed by page name.
package harvest

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source names one page to harvest.
type Source struct {
	Key string
	URL string
}

// ParseSources decodes a YAML mapping of page keys to URLs. Sources are returned sorted by key.
func ParseSources(data []byte) ([]Source, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("source list is empty")
	}
	var mapping map[string]string
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	if len(mapping) == 0 {
		return nil, errors.New("source list is empty")
	}

	sources := make([]Source, 0, len(mapping))
	for key, rawURL := range mapping {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return nil, errors.New("source key must not be empty")
		}
		if err := validateURL(rawURL); err != nil {
			return nil, fmt.Errorf("source %s: %w", trimmedKey, err)
		}
		sources = append(sources, Source{Key: trimmedKey, URL: strings.TrimSpace(rawURL)})
	}
	sort.Slice(sources, func(left, right int) bool {
		return sources[left].Key < sources[right].Key
	})
	return sources, nil
}

// LoadSources reads and parses the YAML source list at path.
//
// #nosec G304
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources %s: %w", path, err)
	}
	sources, parseErr := ParseSources(data)
	if parseErr != nil {
		return nil, fmt.Errorf("%s: %w", path, parseErr)
	}
	return sources, nil
}

func validateURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %s has no host", trimmed)
	}
	return nil
}
