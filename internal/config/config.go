package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// Load reads a project configuration file. A missing file is not an error: the
// project is built with defaults rooted at the file's directory.
func Load(configPath string) (*Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, ferrors.ConfigError("failed to resolve config path").
			WithCause(err).WithContext("path", configPath).Build()
	}
	root := filepath.Dir(abs)
	loadEnvFiles(root)

	cfg := Default()
	cfg.Root = root

	data, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("No configuration file found, using defaults", logfields.Path(abs))
	case err != nil:
		return nil, ferrors.ConfigError("failed to read config file").
			WithCause(err).WithContext("path", abs).Build()
	default:
		// Expand environment variables in the YAML content (tokens, URLs).
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, ferrors.ConfigError("failed to parse config file").
				WithCause(err).WithContext("path", abs).Build()
		}
	}

	cfg.applyDefaults()

	css, err := ResolveCSSOverride(root)
	if err != nil {
		slog.Warn("Ignoring stylesheet override", logfields.Path(os.Getenv(CSSOverrideEnv)), logfields.Error(err))
	}
	cfg.Styles.CSSOverride = css

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDir loads the project configuration found in dir.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists").
			WithContext("path", configPath).
			WithHelp("use --force to overwrite").
			Build()
	}

	enabled := true
	example := Default()
	example.Project.Name = "my-project"
	example.Project.Description = "A short description of my project"
	example.Project.Repository = "https://github.com/example/my-project"
	example.Project.ReadmePath = "README.md"
	example.Components = ComponentsConfig{
		Artifacts: &ArtifactsConfig{Enabled: &enabled},
		Changelog: &ChangelogConfig{RSSFeed: true},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.StructuralIOError("failed to write config file").
			WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
