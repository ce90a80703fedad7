package config

const (
	// DefaultOutputFile is the report file written when no output argument is given.
	DefaultOutputFile = "code_structure.txt"
	// DefaultMaxSize is the largest file size in bytes that is inlined by default.
	DefaultMaxSize int64 = 500000
	// DefaultHarvestOutput is the file written by the harvest command.
	DefaultHarvestOutput = "site-knowledge.json"
	// DefaultHarvestLimit is the number of characters kept per harvested page.
	DefaultHarvestLimit = 2000
	// DefaultHarvestConcurrency bounds simultaneous page fetches.
	DefaultHarvestConcurrency = 4
	// DefaultHarvestTimeout bounds a single page fetch.
	DefaultHarvestTimeout = "30s"
)

// DefaultExcludedDirectories returns dependency caches, build output and tool metadata directories.
func DefaultExcludedDirectories() []string {
	return []string{
		"node_modules", ".next", ".git", "__pycache__", ".pytest_cache", "venv", ".venv",
		"dist", "build", ".vscode", ".idea", "tmp", "temp", "logs",
	}
}

// DefaultExcludedFiles returns lock files, local environment files and OS metadata files.
func DefaultExcludedFiles() []string {
	return []string{
		".env", ".env.local", ".gitignore", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		"Thumbs.db", ".DS_Store",
	}
}

// DefaultExtensions returns the extensions whose content is inlined.
func DefaultExtensions() []string {
	return []string{
		".js", ".jsx", ".ts", ".tsx", ".css", ".scss", ".less", ".json", ".html", ".htm",
		".py", ".md", ".java", ".go", ".c", ".cpp", ".h", ".txt", ".xml", ".yaml", ".yml",
		".sh", ".toml", ".lock",
	}
}
