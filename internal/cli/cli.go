// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/services/clipboard"
	"github.com/temirov/codetree/internal/utils"
)

const (
	rootUse              = "codetree <project_directory> [output_file]"
	rootShortDescription = "write a project's directory tree and source contents to one report"
	rootLongDescription  = `codetree walks a project directory and writes an indented tree of its
files and directories. The content of every eligible file is inlined beneath
its entry between START and END markers. Oversized files are marked as
skipped and unreadable files are marked with the read error.

The report is written to code_structure.txt unless an output file is given.
Use - as the output file to write the report to standard output.`
	rootUsageExample = `  # Write the report for the current project
  codetree .

  # Inline only Go and Markdown files and print the report
  codetree --ext .go --ext .md ./service -

  # Emit the report as JSON events with a summary record
  codetree --format json --summary ./service report.ndjson`

	versionTemplate = "codetree version: {{.Version}}\n"

	excludeDirectoryFlagName = "exclude-dir"
	excludeFileFlagName      = "exclude-file"
	extensionFlagName        = "ext"
	excludePathFlagName      = "exclude-path"
	maxSizeFlagName          = "max-size"
	redactFlagName           = "redact"
	gitleaksFlagName         = "gitleaks"
	placeholderFlagName      = "placeholder"
	gitignoreFlagName        = "gitignore"
	noIgnoreFlagName         = "no-ignore"
	noDefaultsFlagName       = "no-defaults"
	structureOnlyFlagName    = "structure-only"
	orderFlagName            = "order"
	formatFlagName           = "format"
	summaryFlagName          = "summary"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	copyFlagName             = "copy"
	configFlagName           = "config"

	excludeDirectoryFlagDescription = "directory name to leave out at every depth (repeatable, replaces the defaults)"
	excludeFileFlagDescription      = "file name to leave out at every depth (repeatable, replaces the defaults)"
	extensionFlagDescription        = "extension whose content is inlined (repeatable, replaces the defaults)"
	excludePathFlagDescription      = "glob matched against paths relative to the project directory (repeatable)"
	maxSizeFlagDescription          = "largest file size in bytes that is inlined, 0 disables the limit"
	redactFlagDescription           = "replace lines that look like secrets with a placeholder"
	gitleaksFlagDescription         = "also redact lines flagged by the gitleaks rule set"
	placeholderFlagDescription      = "text that replaces a redacted line"
	gitignoreFlagDescription        = "also leave out entries matched by the project's .gitignore"
	noIgnoreFlagDescription         = "do not read names from the project's " + utils.IgnoreFileName
	noDefaultsFlagDescription       = "start from empty exclusion lists and no size limit"
	structureOnlyFlagDescription    = "list the tree without inlining any file content"
	orderFlagDescription            = "sibling order: sorted or native"
	formatFlagDescription           = "report format: raw or json"
	summaryFlagDescription          = "append a summary of the report"
	tokensFlagDescription           = "count tokens of the inlined content"
	modelFlagDescription            = "tokenizer model used for token counting"
	copyFlagDescription             = "copy the finished report to the system clipboard"
	configFlagDescription           = "configuration file to use instead of ./" + utils.ConfigFileName

	standardOutputPath = "-"
)

// application carries the collaborators shared by every command.
type application struct {
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	copier clipboard.Copier
}

// extractFlagValues receives the raw values of the root command flags.
// Only flags that were explicitly set override configuration.
type extractFlagValues struct {
	excludeDirectories []string
	excludeFiles       []string
	extensions         []string
	excludePaths       []string
	maxSize            int64
	redact             bool
	gitleaks           bool
	placeholder        string
	gitignore          bool
	noIgnore           bool
	noDefaults         bool
	structureOnly      bool
	order              string
	format             string
	summary            bool
	tokens             bool
	model              string
	copy               bool
}

// Execute runs the codetree application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	app := &application{
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
		copier: clipboard.NewService(),
	}
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command and its subcommands.
func createRootCommand(app *application) *cobra.Command {
	var flagValues extractFlagValues
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          validateRootArguments,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			request := extractRequest{projectDirectory: arguments[0]}
			if len(arguments) > 1 {
				request.outputPath = arguments[1]
			}
			configuration, configurationError := loadConfiguration(configurationPath)
			if configurationError != nil {
				return configurationError
			}
			request.configuration = applyExtractFlags(command, flagValues, configuration.Extract)
			return runExtract(command.Context(), app, request)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(app.stdout)
	rootCommand.SetErr(app.stderr)

	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	addExtractFlags(rootCommand, &flagValues)

	rootCommand.AddCommand(
		createInitCommand(app),
		createHarvestCommand(app, &configurationPath),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// validateRootArguments accepts a project directory and an optional output file.
func validateRootArguments(command *cobra.Command, arguments []string) error {
	switch {
	case len(arguments) == 0:
		return &extract.ConfigError{Reason: "project directory is required; usage: " + command.UseLine()}
	case len(arguments) > 2:
		return &extract.ConfigError{Reason: fmt.Sprintf("expected at most 2 arguments, received %d; usage: %s", len(arguments), command.UseLine())}
	default:
		return nil
	}
}

func addExtractFlags(command *cobra.Command, values *extractFlagValues) {
	flagSet := command.Flags()
	flagSet.StringArrayVar(&values.excludeDirectories, excludeDirectoryFlagName, nil, excludeDirectoryFlagDescription)
	flagSet.StringArrayVar(&values.excludeFiles, excludeFileFlagName, nil, excludeFileFlagDescription)
	flagSet.StringArrayVar(&values.extensions, extensionFlagName, nil, extensionFlagDescription)
	flagSet.StringArrayVar(&values.excludePaths, excludePathFlagName, nil, excludePathFlagDescription)
	flagSet.Int64Var(&values.maxSize, maxSizeFlagName, 0, maxSizeFlagDescription)
	registerBooleanFlag(flagSet, &values.redact, redactFlagName, true, redactFlagDescription)
	registerBooleanFlag(flagSet, &values.gitleaks, gitleaksFlagName, false, gitleaksFlagDescription)
	flagSet.StringVar(&values.placeholder, placeholderFlagName, "", placeholderFlagDescription)
	registerBooleanFlag(flagSet, &values.gitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &values.noIgnore, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &values.noDefaults, noDefaultsFlagName, false, noDefaultsFlagDescription)
	registerBooleanFlag(flagSet, &values.structureOnly, structureOnlyFlagName, false, structureOnlyFlagDescription)
	flagSet.StringVar(&values.order, orderFlagName, string(extract.OrderSorted), orderFlagDescription)
	flagSet.StringVar(&values.format, formatFlagName, "raw", formatFlagDescription)
	registerBooleanFlag(flagSet, &values.summary, summaryFlagName, false, summaryFlagDescription)
	registerBooleanFlag(flagSet, &values.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&values.model, modelFlagName, "", modelFlagDescription)
	registerBooleanFlag(flagSet, &values.copy, copyFlagName, false, copyFlagDescription)
}
