package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	maxResponseBytes int64 = 2 << 20 // 2 MiB
	userAgentValue         = "codetree-harvester"

	defaultLimit       = 2000
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Options tunes a Harvester. Zero values select the defaults.
type Options struct {
	// Limit is the maximum number of characters kept per page. Negative keeps everything.
	Limit       int
	Markdown    bool
	Concurrency int
	Timeout     time.Duration
	// Progress, when set, is called before each page is fetched.
	Progress func(source Source)
}

// Harvester fetches pages concurrently.
type Harvester struct {
	client  httpClient
	options Options
}

// NewHarvester returns a Harvester backed by client, or by a default client when nil.
func NewHarvester(client httpClient, options Options) *Harvester {
	if options.Limit == 0 {
		options.Limit = defaultLimit
	}
	if options.Concurrency <= 0 {
		options.Concurrency = defaultConcurrency
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: options.Timeout}
	}
	return &Harvester{client: client, options: options}
}

// Harvest fetches every source and returns the extracted text keyed by source key.
// The first failure cancels the remaining fetches and is returned.
func (harvester *Harvester) Harvest(ctx context.Context, sources []Source) (map[string]string, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources to harvest")
	}
	results := make(map[string]string, len(sources))
	var resultsMutex sync.Mutex

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(harvester.options.Concurrency)
	for _, source := range sources {
		source := source
		group.Go(func() error {
			if harvester.options.Progress != nil {
				harvester.options.Progress(source)
			}
			text, err := harvester.fetchPage(groupContext, source)
			if err != nil {
				return fmt.Errorf("harvest %s (%s): %w", source.Key, source.URL, err)
			}
			resultsMutex.Lock()
			results[source.Key] = text
			resultsMutex.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (harvester *Harvester) fetchPage(ctx context.Context, source Source) (string, error) {
	requestContext, cancel := context.WithTimeout(ctx, harvester.options.Timeout)
	defer cancel()

	request, requestErr := http.NewRequestWithContext(requestContext, http.MethodGet, source.URL, nil)
	if requestErr != nil {
		return "", fmt.Errorf("build request: %w", requestErr)
	}
	request.Header.Set("User-Agent", userAgentValue)
	response, err := harvester.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %d", response.StatusCode)
	}
	return ExtractText(io.LimitReader(response.Body, maxResponseBytes), harvester.options.Limit, harvester.options.Markdown)
}

// WriteKnowledgeBase stores knowledge at path as a JSON object with sorted keys and
// two-space indentation. The file is replaced atomically.
func WriteKnowledgeBase(path string, knowledge map[string]string) (err error) {
	directory := filepath.Dir(path)
	if mkdirErr := os.MkdirAll(directory, 0o755); mkdirErr != nil {
		return fmt.Errorf("create directory %s: %w", directory, mkdirErr)
	}
	temporaryFile, createErr := os.CreateTemp(directory, "."+filepath.Base(path)+".*")
	if createErr != nil {
		return fmt.Errorf("create temporary file in %s: %w", directory, createErr)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(temporaryFile.Name())
		}
	}()

	if chmodErr := temporaryFile.Chmod(0o644); chmodErr != nil {
		return errors.Join(fmt.Errorf("set permissions on %s: %w", temporaryFile.Name(), chmodErr), temporaryFile.Close())
	}
	encoder := json.NewEncoder(temporaryFile)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if encodeErr := encoder.Encode(knowledge); encodeErr != nil {
		return errors.Join(fmt.Errorf("encode knowledge base: %w", encodeErr), temporaryFile.Close())
	}
	if closeErr := temporaryFile.Close(); closeErr != nil {
		return fmt.Errorf("close %s: %w", temporaryFile.Name(), closeErr)
	}
	if renameErr := os.Rename(temporaryFile.Name(), path); renameErr != nil {
		return fmt.Errorf("replace %s: %w", path, renameErr)
	}
	return nil
}
