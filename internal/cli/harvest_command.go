package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codetree/internal/config"
	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/harvest"
)

const (
	harvestUse              = "harvest"
	harvestShortDescription = "collect page text from a list of URLs into a JSON knowledge base"
	harvestLongDescription  = `Fetch every page named in a YAML source list (key: url), strip scripts,
styles, navigation, and footers, and store the remaining text keyed by page name.
Any failed page fails the harvest and nothing is written.`
	harvestUsageExample = `  # Harvest the pages listed in sources.yaml
  codetree harvest --sources sources.yaml

  # Keep page structure as Markdown and allow longer pages
  codetree harvest --sources sources.yaml --markdown --limit 8000 --output docs.json`

	sourcesFlagName            = "sources"
	harvestOutputFlagName      = "output"
	limitFlagName              = "limit"
	markdownFlagName           = "markdown"
	concurrencyFlagName        = "concurrency"
	timeoutFlagName            = "timeout"
	sourcesFlagDescription     = "YAML file mapping page keys to URLs"
	harvestOutputDescription   = "JSON file that receives the knowledge base"
	limitFlagDescription       = "characters kept per page, negative keeps everything"
	markdownFlagDescription    = "convert pages to Markdown instead of plain text"
	concurrencyFlagDescription = "number of pages fetched at once"
	timeoutFlagDescription     = "time allowed for each page request"

	knowledgeBaseWrittenMessageFormat = "Harvested %d pages into %s\n"
)

type harvestFlagValues struct {
	sources     string
	output      string
	limit       int
	markdown    bool
	concurrency int
	timeout     string
}

func createHarvestCommand(app *application, configurationPath *string) *cobra.Command {
	var flagValues harvestFlagValues

	harvestCommand := &cobra.Command{
		Use:     harvestUse,
		Short:   harvestShortDescription,
		Long:    harvestLongDescription,
		Example: harvestUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationError := loadConfiguration(*configurationPath)
			if configurationError != nil {
				return configurationError
			}
			harvestConfiguration := applyHarvestFlags(command, flagValues, configuration.Harvest)
			return runHarvest(command, app, harvestConfiguration)
		},
	}

	flagSet := harvestCommand.Flags()
	flagSet.StringVar(&flagValues.sources, sourcesFlagName, "", sourcesFlagDescription)
	flagSet.StringVar(&flagValues.output, harvestOutputFlagName, config.DefaultHarvestOutput, harvestOutputDescription)
	flagSet.IntVar(&flagValues.limit, limitFlagName, config.DefaultHarvestLimit, limitFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.markdown, markdownFlagName, false, markdownFlagDescription)
	flagSet.IntVar(&flagValues.concurrency, concurrencyFlagName, config.DefaultHarvestConcurrency, concurrencyFlagDescription)
	flagSet.StringVar(&flagValues.timeout, timeoutFlagName, config.DefaultHarvestTimeout, timeoutFlagDescription)
	return harvestCommand
}

func applyHarvestFlags(command *cobra.Command, values harvestFlagValues, configuration config.HarvestConfiguration) config.HarvestConfiguration {
	changed := command.Flags().Changed
	if changed(sourcesFlagName) {
		configuration.Sources = values.sources
	}
	if changed(harvestOutputFlagName) {
		configuration.Output = values.output
	}
	if changed(limitFlagName) {
		limit := values.limit
		configuration.Limit = &limit
	}
	if changed(markdownFlagName) {
		configuration.Markdown = boolPointer(values.markdown)
	}
	if changed(concurrencyFlagName) {
		concurrency := values.concurrency
		configuration.Concurrency = &concurrency
	}
	if changed(timeoutFlagName) {
		configuration.Timeout = values.timeout
	}
	return configuration
}

func runHarvest(command *cobra.Command, app *application, configuration config.HarvestConfiguration) error {
	if configuration.Sources == "" {
		return &extract.ConfigError{Reason: fmt.Sprintf("--%s is required", sourcesFlagName)}
	}
	options, optionsError := harvestOptions(configuration)
	if optionsError != nil {
		return optionsError
	}
	options.Progress = func(source harvest.Source) {
		app.logger.Info("fetching page", zap.String("key", source.Key), zap.String("url", source.URL))
	}

	sources, sourcesError := harvest.LoadSources(configuration.Sources)
	if sourcesError != nil {
		return &extract.ConfigError{Reason: "loading harvest sources", Err: sourcesError}
	}
	knowledge, harvestError := harvest.NewHarvester(nil, options).Harvest(command.Context(), sources)
	if harvestError != nil {
		return harvestError
	}

	outputPath := configuration.Output
	if outputPath == "" {
		outputPath = config.DefaultHarvestOutput
	}
	if writeError := harvest.WriteKnowledgeBase(outputPath, knowledge); writeError != nil {
		return writeError
	}
	color.New(color.FgGreen).Fprintf(app.stderr, knowledgeBaseWrittenMessageFormat, len(knowledge), outputPath)
	return nil
}

func harvestOptions(configuration config.HarvestConfiguration) (harvest.Options, error) {
	options := harvest.Options{
		Limit:       config.DefaultHarvestLimit,
		Markdown:    config.BoolValue(configuration.Markdown, false),
		Concurrency: config.DefaultHarvestConcurrency,
	}
	if configuration.Limit != nil {
		options.Limit = *configuration.Limit
	}
	if configuration.Concurrency != nil {
		if *configuration.Concurrency <= 0 {
			return harvest.Options{}, &extract.ConfigError{Reason: fmt.Sprintf("--%s must be positive", concurrencyFlagName)}
		}
		options.Concurrency = *configuration.Concurrency
	}
	timeout := configuration.Timeout
	if timeout == "" {
		timeout = config.DefaultHarvestTimeout
	}
	parsedTimeout, parseError := time.ParseDuration(timeout)
	if parseError != nil || parsedTimeout <= 0 {
		return harvest.Options{}, &extract.ConfigError{Reason: fmt.Sprintf("invalid --%s %q", timeoutFlagName, timeout), Err: parseError}
	}
	options.Timeout = parsedTimeout
	return options, nil
}
