// Package extract walks a project directory and streams a report of its
// structure and the contents of eligible files to a Sink.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/codetree/internal/tokenizer"
	"github.com/temirov/codetree/internal/utils"
)

const rootRelativePath = "."

// Extractor produces reports for directory trees. One Extractor may run any number of extractions.
type Extractor struct {
	options       Options
	readDirectory func(path string) ([]os.DirEntry, error)
}

type extraction struct {
	ctx       context.Context
	options   Options
	filter    *entryFilter
	sink      Sink
	summary   Summary
	extractor *Extractor
}

type childEntry struct {
	name         string
	absolutePath string
	relativePath string
	info         os.FileInfo
	// infoError is set when the entry was listed but could not be inspected.
	infoError error
}

// New validates options and returns an Extractor. Invalid options yield a *ConfigError.
func New(options Options) (*Extractor, error) {
	normalizedOptions, optionsError := options.normalized()
	if optionsError != nil {
		return nil, optionsError
	}
	return &Extractor{options: normalizedOptions, readDirectory: listDirectory}, nil
}

// Extract walks root depth-first in pre-order and sends the report to sink.
//
// Per-directory and per-file failures are reported inline and do not stop the walk.
// The returned error is a *ConfigError for an invalid root, the context error on
// cancellation, or the first error returned by the sink.
func (extractor *Extractor) Extract(ctx context.Context, root string, sink Sink) (Summary, error) {
	if sink == nil {
		return Summary{}, errors.New("extract: nil sink")
	}
	absoluteRoot, rootError := ValidateRoot(root)
	if rootError != nil {
		return Summary{}, rootError
	}

	run := &extraction{
		ctx:       ctx,
		options:   extractor.options,
		filter:    newEntryFilter(absoluteRoot, extractor.options),
		sink:      sink,
		extractor: extractor,
	}
	if extractor.options.TokenCounter != nil {
		run.summary.Model = extractor.options.TokenModel
	}

	if startError := sink.Handle(Event{Kind: EventKindStart, Path: absoluteRoot, Name: filepath.Base(absoluteRoot)}); startError != nil {
		return Summary{}, startError
	}
	if walkError := run.walkDirectory(absoluteRoot, rootRelativePath, 0, true); walkError != nil {
		return run.summary, walkError
	}
	finalSummary := run.summary
	if doneError := sink.Handle(Event{Kind: EventKindDone, Summary: &finalSummary}); doneError != nil {
		return run.summary, doneError
	}
	return run.summary, nil
}

// ValidateRoot resolves root to an absolute directory path. A missing, empty, or
// non-directory root yields a *ConfigError.
func ValidateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", &ConfigError{Reason: "project directory is required"}
	}
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return "", &ConfigError{Reason: fmt.Sprintf("invalid project directory %s", root), Err: absoluteError}
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", &ConfigError{Reason: fmt.Sprintf("project directory %s does not exist", root)}
		}
		return "", &ConfigError{Reason: fmt.Sprintf("cannot access project directory %s", root), Err: statError}
	}
	if !rootInfo.IsDir() {
		return "", &ConfigError{Reason: fmt.Sprintf("%s is not a directory", root)}
	}
	return absoluteRoot, nil
}

func listDirectory(path string) ([]os.DirEntry, error) {
	directory, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer directory.Close()
	return directory.ReadDir(-1)
}

func (run *extraction) emit(event Event) error {
	if contextError := run.ctx.Err(); contextError != nil {
		return contextError
	}
	return run.sink.Handle(event)
}

func (run *extraction) walkDirectory(absolutePath string, relativePath string, depth int, last bool) error {
	run.summary.Directories++
	if directoryError := run.emit(Event{
		Kind:  EventKindDirectory,
		Path:  relativePath,
		Name:  filepath.Base(absolutePath),
		Depth: depth,
		Last:  last,
	}); directoryError != nil {
		return directoryError
	}

	directories, files, listError := run.partition(absolutePath, relativePath)
	if listError != nil {
		traversalError := &TraversalError{Path: relativePath, Err: listError}
		run.summary.Errors++
		run.options.Warn(traversalError.Error())
		return run.emit(Event{
			Kind:   EventKindDirectoryError,
			Path:   relativePath,
			Name:   filepath.Base(absolutePath),
			Depth:  depth,
			Last:   last,
			Reason: describeReadFailure(listError),
		})
	}

	childCount := len(files) + len(directories)
	for index, file := range files {
		if fileError := run.emitFile(file, depth+1, index == childCount-1); fileError != nil {
			return fileError
		}
	}
	for index, directory := range directories {
		isLast := len(files)+index == childCount-1
		if walkError := run.walkDirectory(directory.absolutePath, directory.relativePath, depth+1, isLast); walkError != nil {
			return walkError
		}
	}
	return nil
}

// partition lists a directory and returns its retained sub-directories and files.
func (run *extraction) partition(absolutePath string, relativePath string) ([]childEntry, []childEntry, error) {
	entries, readError := run.extractor.readDirectory(absolutePath)
	if readError != nil {
		return nil, nil, readError
	}
	if run.options.Order == OrderSorted {
		sort.Slice(entries, func(left, right int) bool {
			return entries[left].Name() < entries[right].Name()
		})
	}

	var directories []childEntry
	var files []childEntry
	for _, entry := range entries {
		name := entry.Name()
		child := childEntry{
			name:         name,
			absolutePath: filepath.Join(absolutePath, name),
			relativePath: utils.JoinRelativePath(relativePath, name),
		}
		if entry.IsDir() {
			if run.filter.excludesDirectory(child.absolutePath, child.relativePath, name) {
				continue
			}
			directories = append(directories, child)
			continue
		}

		// A link to a directory is listed as a file and never followed, but a
		// directory exclusion still applies to its name.
		if entry.Type()&fs.ModeSymlink != 0 {
			if targetInfo, statError := os.Stat(child.absolutePath); statError == nil && targetInfo.IsDir() &&
				run.filter.excludesDirectory(child.absolutePath, child.relativePath, name) {
				continue
			}
		}

		entryInfo, infoError := entry.Info()
		if infoError != nil {
			child.infoError = infoError
			if run.filter.excludesFile(child.absolutePath, child.relativePath, name, nil) {
				continue
			}
			files = append(files, child)
			continue
		}
		if run.filter.excludesFile(child.absolutePath, child.relativePath, name, entryInfo) {
			continue
		}
		child.info = entryInfo
		files = append(files, child)
	}
	return directories, files, nil
}

func (run *extraction) emitFile(file childEntry, depth int, last bool) error {
	if file.infoError != nil {
		run.summary.Files++
		fileEvent := Event{Kind: EventKindFile, Path: file.relativePath, Name: file.name, Depth: depth, Last: last}
		if fileError := run.emit(fileEvent); fileError != nil {
			return fileError
		}
		return run.emitReadError(fileEvent, file.infoError)
	}
	size := file.info.Size()
	isSymlink := file.info.Mode()&os.ModeSymlink != 0
	eligible := utils.HasAnySuffixFold(file.name, run.options.Exclusions.Extensions)

	var targetError error
	isRegular := file.info.Mode().IsRegular()
	if isSymlink {
		targetInfo, statError := os.Stat(file.absolutePath)
		if statError != nil {
			targetError = statError
		} else {
			size = targetInfo.Size()
			isRegular = targetInfo.Mode().IsRegular()
		}
	}

	run.summary.Files++
	run.summary.Bytes += size
	fileEvent := Event{Kind: EventKindFile, Path: file.relativePath, Name: file.name, Depth: depth, Last: last, Size: size}
	if fileError := run.emit(fileEvent); fileError != nil {
		return fileError
	}

	if !eligible {
		return nil
	}
	if targetError != nil {
		return run.emitReadError(fileEvent, targetError)
	}
	if !isRegular {
		return nil
	}
	limit := run.options.Exclusions.MaxSize
	if limit > 0 && size > limit {
		return run.emitSkipped(fileEvent, size)
	}

	scannedSize, scanError := scanContent(file.absolutePath, limit)
	if scanError != nil {
		return run.emitReadError(fileEvent, scanError)
	}
	if limit > 0 && scannedSize > limit {
		return run.emitSkipped(fileEvent, scannedSize)
	}
	return run.emitContent(fileEvent, file.absolutePath, scannedSize)
}

// openBounded opens path for reading at most maxBytes bytes. A maxBytes of zero or less reads everything.
func openBounded(path string, maxBytes int64) (io.Reader, io.Closer, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return nil, nil, openError
	}
	if maxBytes <= 0 {
		return file, file, nil
	}
	return io.LimitReader(file, maxBytes), file, nil
}

// scanContent checks that a file is text and returns the number of bytes read.
// At most limit+1 bytes are read so a file that grew after being listed is still
// detected as too large. Nothing beyond the current line is retained.
func scanContent(path string, limit int64) (int64, error) {
	maxBytes := int64(0)
	if limit > 0 {
		maxBytes = limit + 1
	}
	reader, closer, openError := openBounded(path, maxBytes)
	if openError != nil {
		return 0, openError
	}
	defer closer.Close()

	counter := &countingReader{reader: reader}
	if scanError := utils.ScanLines(counter, func(string) error { return nil }); scanError != nil {
		return 0, scanError
	}
	return counter.count, nil
}

type countingReader struct {
	reader io.Reader
	count  int64
}

func (counter *countingReader) Read(buffer []byte) (int, error) {
	readCount, readError := counter.reader.Read(buffer)
	counter.count += int64(readCount)
	return readCount, readError
}

// emitContent streams the first size bytes of a validated file one line at a time.
// Each line is redacted before it reaches the sink.
func (run *extraction) emitContent(fileEvent Event, path string, size int64) error {
	file, openError := os.Open(path)
	if openError != nil {
		return run.emitReadError(fileEvent, openError)
	}
	defer file.Close()
	reader := io.LimitReader(file, size)

	startEvent := fileEvent
	startEvent.Kind = EventKindContentStart
	if startError := run.emit(startEvent); startError != nil {
		return startError
	}

	var emitted strings.Builder
	var sinkError error
	scanError := utils.ScanLines(reader, func(line string) error {
		lineEvent := fileEvent
		lineEvent.Kind = EventKindContentLine
		lineEvent.Line = line
		if run.options.Redactor != nil {
			redactedLine, redacted := run.options.Redactor.Apply(line)
			if redacted {
				run.summary.Redacted++
				lineEvent.Line = redactedLine
				lineEvent.Redacted = true
			}
		}
		if run.options.TokenCounter != nil {
			emitted.WriteString(lineEvent.Line)
			emitted.WriteByte('\n')
		}
		sinkError = run.emit(lineEvent)
		return sinkError
	})
	if sinkError != nil {
		return sinkError
	}
	if scanError != nil {
		// The file changed between the validating pass and this one.
		return run.emitReadError(fileEvent, scanError)
	}

	endEvent := fileEvent
	endEvent.Kind = EventKindContentEnd
	if endError := run.emit(endEvent); endError != nil {
		return endError
	}
	run.summary.Inlined++

	if run.options.TokenCounter != nil {
		countResult, countError := tokenizer.CountBytes(run.options.TokenCounter, []byte(emitted.String()))
		if countError != nil {
			run.options.Warn(fmt.Sprintf("token counting failed for %s: %v", fileEvent.Path, countError))
		} else if countResult.Counted {
			run.summary.Tokens += countResult.Tokens
		}
	}
	return nil
}

func (run *extraction) emitSkipped(fileEvent Event, size int64) error {
	run.summary.Skipped++
	skippedEvent := fileEvent
	skippedEvent.Kind = EventKindSkipped
	skippedEvent.Size = size
	skippedEvent.Limit = run.options.Exclusions.MaxSize
	return run.emit(skippedEvent)
}

func (run *extraction) emitReadError(fileEvent Event, cause error) error {
	run.summary.Errors++
	readError := &ReadError{Path: fileEvent.Path, Err: cause}
	run.options.Warn(readError.Error())
	errorEvent := fileEvent
	errorEvent.Kind = EventKindReadError
	errorEvent.Reason = describeReadFailure(cause)
	return run.emit(errorEvent)
}

// describeReadFailure drops the absolute path that *fs.PathError carries so
// reports stay identical across checkouts.
func describeReadFailure(cause error) string {
	var pathError *fs.PathError
	if errors.As(cause, &pathError) {
		return pathError.Err.Error()
	}
	return cause.Error()
}
