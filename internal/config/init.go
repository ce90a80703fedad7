package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/codetree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `extract:
  output: code_structure.txt
  format: raw
  order: sorted
  summary: false
  clipboard: false
  tokens:
    enabled: false
    model: gpt-4o
  paths:
    exclude_directories: [node_modules, .next, .git, __pycache__, .pytest_cache, venv, .venv, dist, build, .vscode, .idea, tmp, temp, logs]
    exclude_files: [.env, .env.local, .gitignore, package-lock.json, yarn.lock, pnpm-lock.yaml, Thumbs.db, .DS_Store]
    extensions: [.js, .jsx, .ts, .tsx, .css, .scss, .less, .json, .html, .htm, .py, .md, .java, .go, .c, .cpp, .h, .txt, .xml, .yaml, .yml, .sh, .toml, .lock]
    exclude_paths: []
    max_size: 500000
    use_gitignore: false
    use_ignore: true
    structure_only: false
  redact:
    enabled: true
    gitleaks: false
    placeholder: "[REDACTED]"
    rules: []
harvest:
  output: site-knowledge.json
  limit: 2000
  markdown: false
  concurrency: 4
  timeout: 30s
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		globalPath, err := GlobalConfigurationPath()
		if err != nil {
			return "", fmt.Errorf("resolve configuration location: %w", err)
		}
		configurationDirectory := filepath.Dir(globalPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = globalPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
