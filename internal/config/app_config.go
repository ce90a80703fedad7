package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codetree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Extract ExtractConfiguration `mapstructure:"extract"`
	Harvest HarvestConfiguration `mapstructure:"harvest"`
}

// ExtractConfiguration defines defaults for the report produced by the root command.
type ExtractConfiguration struct {
	Output    string                 `mapstructure:"output"`
	Format    string                 `mapstructure:"format"`
	Order     string                 `mapstructure:"order"`
	Summary   *bool                  `mapstructure:"summary"`
	Clipboard *bool                  `mapstructure:"clipboard"`
	Tokens    TokenConfiguration     `mapstructure:"tokens"`
	Paths     PathConfiguration      `mapstructure:"paths"`
	Redaction RedactionConfiguration `mapstructure:"redact"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures which entries are listed and which files are inlined.
type PathConfiguration struct {
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
	ExcludeFiles       []string `mapstructure:"exclude_files"`
	Extensions         []string `mapstructure:"extensions"`
	ExcludePaths       []string `mapstructure:"exclude_paths"`
	MaxSize            *int64   `mapstructure:"max_size"`
	UseGitignore       *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile      *bool    `mapstructure:"use_ignore"`
	NoDefaults         *bool    `mapstructure:"no_defaults"`
	StructureOnly      *bool    `mapstructure:"structure_only"`
}

// RedactionConfiguration controls secret redaction of inlined content.
type RedactionConfiguration struct {
	Enabled     *bool               `mapstructure:"enabled"`
	Gitleaks    *bool               `mapstructure:"gitleaks"`
	Placeholder string              `mapstructure:"placeholder"`
	Rules       []RuleConfiguration `mapstructure:"rules"`
}

// RuleConfiguration declares an additional redaction rule.
type RuleConfiguration struct {
	ID       string   `mapstructure:"id"`
	Pattern  string   `mapstructure:"pattern"`
	Keywords []string `mapstructure:"keywords"`
}

// HarvestConfiguration defines defaults for the harvest command.
type HarvestConfiguration struct {
	Sources     string `mapstructure:"sources"`
	Output      string `mapstructure:"output"`
	Limit       *int   `mapstructure:"limit"`
	Markdown    *bool  `mapstructure:"markdown"`
	Concurrency *int   `mapstructure:"concurrency"`
	Timeout     string `mapstructure:"timeout"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local
// or explicit file. Values from the later file override earlier ones field by field.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath, err := GlobalConfigurationPath(); err == nil {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

// GlobalConfigurationPath returns the location of the per-user configuration file.
func GlobalConfigurationPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if homeDirectory == "" {
		return "", fmt.Errorf("resolve home directory: empty path")
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

// loadConfigurationFromPath decodes one configuration file. A missing file yields an
// empty configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Extract = result.Extract.merge(override.Extract)
	result.Harvest = result.Harvest.merge(override.Harvest)
	return result
}

func (config ExtractConfiguration) merge(override ExtractConfiguration) ExtractConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Order != "" {
		result.Order = override.Order
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	result.Redaction = result.Redaction.merge(override.Redaction)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.ExcludeDirectories) > 0 {
		result.ExcludeDirectories = utils.DeduplicatePatterns(override.ExcludeDirectories)
	}
	if len(override.ExcludeFiles) > 0 {
		result.ExcludeFiles = utils.DeduplicatePatterns(override.ExcludeFiles)
	}
	if len(override.Extensions) > 0 {
		result.Extensions = utils.DeduplicatePatterns(override.Extensions)
	}
	if len(override.ExcludePaths) > 0 {
		result.ExcludePaths = utils.DeduplicatePatterns(override.ExcludePaths)
	}
	if override.MaxSize != nil {
		maxSize := *override.MaxSize
		result.MaxSize = &maxSize
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.NoDefaults != nil {
		result.NoDefaults = cloneBool(override.NoDefaults)
	}
	if override.StructureOnly != nil {
		result.StructureOnly = cloneBool(override.StructureOnly)
	}
	return result
}

func (config RedactionConfiguration) merge(override RedactionConfiguration) RedactionConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Gitleaks != nil {
		result.Gitleaks = cloneBool(override.Gitleaks)
	}
	if override.Placeholder != "" {
		result.Placeholder = override.Placeholder
	}
	if len(override.Rules) > 0 {
		result.Rules = append([]RuleConfiguration{}, override.Rules...)
	}
	return result
}

func (config HarvestConfiguration) merge(override HarvestConfiguration) HarvestConfiguration {
	result := config
	if override.Sources != "" {
		result.Sources = override.Sources
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Limit != nil {
		result.Limit = cloneInt(override.Limit)
	}
	if override.Markdown != nil {
		result.Markdown = cloneBool(override.Markdown)
	}
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
