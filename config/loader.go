package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "sintology.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/sintology"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	workDir string
	homeDir string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithWorkDir sets the directory where the project config search starts.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.workDir = dir
	}
}

// WithHomeDir sets the directory holding the user config.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.homeDir = dir
	}
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	if l.workDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			l.workDir = cwd
		}
	}
	if l.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			l.homeDir = home
		}
	}
	return l
}

// source is one config file layered over the defaults.
type source struct {
	name     string
	path     string
	required bool
}

// Load layers, lowest precedence first: defaults, the user config
// (~/.config/sintology/config.yaml), the nearest sintology.yaml at or above
// the work directory, and explicitPath when set. Only the explicit file must
// exist and parse; the others are skipped with a warning when unreadable.
// Command-line flags are applied by the caller on top of the result.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	for _, src := range l.sources(explicitPath) {
		layer, err := LoadFromFile(src.path)
		switch {
		case err == nil:
			l.logger.Debug("Applied config layer", slog.String("source", src.name), slog.String("path", src.path))
			cfg.Merge(layer)
		case src.required:
			return nil, fmt.Errorf("load config %s: %w", src.path, err)
		case errors.Is(err, os.ErrNotExist):
		default:
			l.logger.Warn("Skipping unreadable config", slog.String("source", src.name),
				slog.String("path", src.path), slog.String("error", err.Error()))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) sources(explicitPath string) []source {
	var out []source
	if l.homeDir != "" {
		out = append(out, source{name: "user", path: filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)})
	}
	if path := l.findProjectConfig(); path != "" {
		out = append(out, source{name: "project", path: path})
	}
	if explicitPath != "" {
		out = append(out, source{name: "explicit", path: explicitPath, required: true})
	}
	return out
}

// EnsureProjectConfig writes a default project config into the work
// directory unless one already exists. It returns the path and whether a
// file was created.
func (l *Loader) EnsureProjectConfig() (string, bool, error) {
	path := filepath.Join(l.workDir, ProjectConfigFile)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", false, err
	}

	l.logger.Info("Created default project config", slog.String("path", path))
	return path, true, nil
}

// findProjectConfig returns the nearest sintology.yaml at or above the work
// directory, or "" when there is none.
func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}
	for dir := l.workDir; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}
