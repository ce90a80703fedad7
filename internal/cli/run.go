package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codetree/internal/config"
	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/output"
	"github.com/temirov/codetree/internal/redact"
	"github.com/temirov/codetree/internal/services/clipboard"
	"github.com/temirov/codetree/internal/tokenizer"
)

const (
	reportWrittenMessageFormat   = "Report for %s written to %s\n"
	standardOutputDisplayName    = "standard output"
	clipboardCopiedMessage       = "Report copied to clipboard"
	clipboardNeedsFileMessage    = "clipboard copy skipped: the report was written to standard output"
	clipboardFailedMessageFormat = "clipboard copy failed: %v"
)

// extractRequest is one run of the root command after configuration and flags are merged.
type extractRequest struct {
	projectDirectory string
	outputPath       string
	configuration    config.ExtractConfiguration
}

func loadConfiguration(explicitPath string) (config.ApplicationConfiguration, error) {
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: explicitPath})
	if loadError != nil {
		return config.ApplicationConfiguration{}, &extract.ConfigError{Reason: "loading configuration", Err: loadError}
	}
	return configuration, nil
}

// applyExtractFlags overlays explicitly set root flags onto configuration.
func applyExtractFlags(command *cobra.Command, values extractFlagValues, configuration config.ExtractConfiguration) config.ExtractConfiguration {
	flagSet := command.Flags()
	changed := flagSet.Changed
	if changed(excludeDirectoryFlagName) {
		configuration.Paths.ExcludeDirectories = values.excludeDirectories
	}
	if changed(excludeFileFlagName) {
		configuration.Paths.ExcludeFiles = values.excludeFiles
	}
	if changed(extensionFlagName) {
		configuration.Paths.Extensions = values.extensions
	}
	if changed(excludePathFlagName) {
		configuration.Paths.ExcludePaths = append(append([]string(nil), configuration.Paths.ExcludePaths...), values.excludePaths...)
	}
	if changed(maxSizeFlagName) {
		maxSize := values.maxSize
		configuration.Paths.MaxSize = &maxSize
	}
	if changed(gitignoreFlagName) {
		configuration.Paths.UseGitignore = boolPointer(values.gitignore)
	}
	if changed(noIgnoreFlagName) {
		configuration.Paths.UseIgnoreFile = boolPointer(!values.noIgnore)
	}
	if changed(noDefaultsFlagName) {
		configuration.Paths.NoDefaults = boolPointer(values.noDefaults)
	}
	if changed(structureOnlyFlagName) {
		configuration.Paths.StructureOnly = boolPointer(values.structureOnly)
	}
	if changed(redactFlagName) {
		configuration.Redaction.Enabled = boolPointer(values.redact)
	}
	if changed(gitleaksFlagName) {
		configuration.Redaction.Gitleaks = boolPointer(values.gitleaks)
	}
	if changed(placeholderFlagName) {
		configuration.Redaction.Placeholder = values.placeholder
	}
	if changed(orderFlagName) {
		configuration.Order = values.order
	}
	if changed(formatFlagName) {
		configuration.Format = values.format
	}
	if changed(summaryFlagName) {
		configuration.Summary = boolPointer(values.summary)
	}
	if changed(tokensFlagName) {
		configuration.Tokens.Enabled = boolPointer(values.tokens)
	}
	if changed(modelFlagName) {
		configuration.Tokens.Model = values.model
	}
	if changed(copyFlagName) {
		configuration.Clipboard = boolPointer(values.copy)
	}
	return configuration
}

func boolPointer(value bool) *bool {
	return &value
}

// runExtract validates the request, writes the report, and reports the outcome on stderr.
// Every configuration problem is detected before the output file is touched.
func runExtract(ctx context.Context, app *application, request extractRequest) (err error) {
	configuration := request.configuration
	projectDirectory, rootError := extract.ValidateRoot(request.projectDirectory)
	if rootError != nil {
		return rootError
	}

	exclusions, exclusionsError := config.BuildExclusions(configuration.Paths, projectDirectory)
	if exclusionsError != nil {
		return exclusionsError
	}
	order, orderError := extract.ParseOrder(configuration.Order)
	if orderError != nil {
		return orderError
	}
	format, formatError := output.ParseFormat(configuration.Format)
	if formatError != nil {
		return formatError
	}
	redactor, redactorError := buildRedactor(configuration.Redaction)
	if redactorError != nil {
		return redactorError
	}

	options := extract.Options{
		Exclusions: exclusions,
		Order:      order,
		Warn: func(message string) {
			app.logger.Warn(message)
		},
	}
	if redactor != nil {
		options.Redactor = redactor
	}
	if config.BoolValue(configuration.Tokens.Enabled, false) {
		counter, model, counterError := tokenizer.NewCounter(tokenizer.Config{Model: configuration.Tokens.Model})
		if counterError != nil {
			return counterError
		}
		options.TokenCounter = counter
		options.TokenModel = model
	}

	outputPath := request.outputPath
	if outputPath == "" {
		outputPath = configuration.Output
	}
	if outputPath == "" {
		outputPath = config.DefaultOutputFile
	}
	writeToStandardOutput := outputPath == standardOutputPath
	if !writeToStandardOutput {
		absoluteOutputPath, absoluteError := filepath.Abs(outputPath)
		if absoluteError != nil {
			return &extract.ConfigError{Reason: fmt.Sprintf("invalid output file %s", outputPath), Err: absoluteError}
		}
		outputPath = absoluteOutputPath
		options.SkipPaths = []string{outputPath}
	}

	extractor, extractorError := extract.New(options)
	if extractorError != nil {
		return extractorError
	}

	summary, writeError := writeReport(ctx, extractor, projectDirectory, outputPath, format, config.BoolValue(configuration.Summary, false), app.stdout)
	if writeError != nil {
		return writeError
	}
	if redactor != nil && summary.Redacted > 0 {
		app.logger.Debug("redaction rules matched", zap.Any("hits", redactor.Hits()))
	}

	displayPath := outputPath
	if writeToStandardOutput {
		displayPath = standardOutputDisplayName
	}
	color.New(color.FgGreen).Fprintf(app.stderr, reportWrittenMessageFormat, filepath.Base(projectDirectory), displayPath)
	fmt.Fprintln(app.stderr, output.FormatSummaryLine(summary))
	fmt.Fprintln(app.stderr, output.FormatCountersLine(summary))

	if config.BoolValue(configuration.Clipboard, false) {
		copyReport(app, outputPath, writeToStandardOutput)
	}
	return nil
}

// writeReport streams the report into outputPath, or into stdout for "-".
// The sink is flushed and closed on every path and close failures are joined into err.
func writeReport(
	ctx context.Context,
	extractor *extract.Extractor,
	projectDirectory string,
	outputPath string,
	format string,
	includeSummary bool,
	stdout io.Writer,
) (summary extract.Summary, err error) {
	var destination io.Writer = stdout
	if outputPath != standardOutputPath {
		if directoryError := os.MkdirAll(filepath.Dir(outputPath), 0o755); directoryError != nil {
			return extract.Summary{}, fmt.Errorf("create output directory for %s: %w", outputPath, directoryError)
		}
		file, createError := os.Create(outputPath)
		if createError != nil {
			return extract.Summary{}, fmt.Errorf("create output file %s: %w", outputPath, createError)
		}
		defer func() {
			if closeError := file.Close(); closeError != nil {
				err = errors.Join(err, fmt.Errorf("close output file %s: %w", outputPath, closeError))
			}
		}()
		destination = file
	}

	buffered := bufio.NewWriter(destination)
	defer func() {
		if flushError := buffered.Flush(); flushError != nil {
			err = errors.Join(err, fmt.Errorf("write report: %w", flushError))
		}
	}()

	renderer, rendererError := output.NewStreamRenderer(format, buffered, includeSummary)
	if rendererError != nil {
		return extract.Summary{}, rendererError
	}
	defer func() {
		if flushError := renderer.Flush(); flushError != nil {
			err = errors.Join(err, fmt.Errorf("write report: %w", flushError))
		}
	}()

	return extractor.Extract(ctx, projectDirectory, renderer)
}

// buildRedactor returns nil when redaction is disabled.
func buildRedactor(configuration config.RedactionConfiguration) (*redact.Redactor, error) {
	if !config.BoolValue(configuration.Enabled, true) {
		return nil, nil
	}
	rules := redact.DefaultRules()

	definitions := make([]redact.PatternDefinition, 0, len(configuration.Rules))
	for _, rule := range configuration.Rules {
		definitions = append(definitions, redact.PatternDefinition{ID: rule.ID, Pattern: rule.Pattern, Keywords: rule.Keywords})
	}
	customRules, compileError := redact.CompileRules(definitions)
	if compileError != nil {
		return nil, &extract.ConfigError{Reason: "invalid redaction rule", Err: compileError}
	}
	rules = append(rules, customRules...)

	if config.BoolValue(configuration.Gitleaks, false) {
		gitleaksRule, gitleaksError := redact.NewGitleaksRule()
		if gitleaksError != nil {
			return nil, &extract.ConfigError{Reason: "loading gitleaks rules", Err: gitleaksError}
		}
		rules = append(rules, gitleaksRule)
	}

	redactor, redactorError := redact.NewRedactor(configuration.Placeholder, rules...)
	if redactorError != nil {
		return nil, &extract.ConfigError{Reason: "invalid redaction settings", Err: redactorError}
	}
	return redactor, nil
}

// copyReport copies a finished report file. Failures are logged and never fail the run.
func copyReport(app *application, outputPath string, writtenToStandardOutput bool) {
	if writtenToStandardOutput {
		app.logger.Warn(clipboardNeedsFileMessage)
		return
	}
	if copyError := clipboard.CopyFile(app.copier, outputPath); copyError != nil {
		app.logger.Warn(fmt.Sprintf(clipboardFailedMessageFormat, copyError))
		return
	}
	color.New(color.FgCyan).Fprintln(app.stderr, clipboardCopiedMessage)
}
