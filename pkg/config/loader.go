package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the name of the project-level config file
const ProjectConfigFile = "codeclare.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	dir    string
}

// NewLoader creates a loader that searches from the current directory
func NewLoader(logger *slog.Logger) *Loader {
	return NewLoaderAt(logger, "")
}

// NewLoaderAt creates a loader that searches from dir (empty = current directory)
func NewLoaderAt(logger *slog.Logger, dir string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, dir: dir}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Project config (codeclare.yaml in the search directory or its parents)
// 3. The explicit path, when given; it must exist
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	if explicitPath != "" {
		explicit, err := LoadFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
		config.Merge(explicit)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// findProjectConfig searches for codeclare.yaml in the search directory and its parents
func (l *Loader) findProjectConfig() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
