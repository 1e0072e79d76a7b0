package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	ProjectConfigFile = "stepgen.yaml"
	UserConfigDir     = ".config/stepgen"
	UserConfigFile    = "config.yaml"
)

// Loader layers defaults, the user config and the project config.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load applies, in order: defaults, ~/.config/stepgen/config.yaml and the
// nearest stepgen.yaml in the working directory or its parents. A broken
// user config is skipped with a warning; a broken project config is an
// error.
func (l *Loader) Load() (*Config, error) {
	return l.load(l.findProjectConfig())
}

// LoadPath is Load with an explicit project config in place of discovery.
func (l *Loader) LoadPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return l.load(path)
}

func (l *Loader) load(projectConfigPath string) (*Config, error) {
	config := DefaultConfig()

	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		userConfig, err := LoadFromFile(userConfigPath)
		switch {
		case err == nil:
			l.logger.Debug("loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		case !errors.Is(err, fs.ErrNotExist):
			l.logger.Warn("failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	if projectConfigPath != "" {
		projectConfig, err := LoadFromFile(projectConfigPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded project config", slog.String("path", projectConfigPath))
		config.Merge(projectConfig)

		abs, err := filepath.Abs(projectConfigPath)
		if err != nil {
			return nil, err
		}
		config.Root = filepath.Dir(abs)
	} else {
		l.logger.Debug("no project config found")
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		config.Root = cwd
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks up from the working directory looking for
// stepgen.yaml.
func (l *Loader) findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
