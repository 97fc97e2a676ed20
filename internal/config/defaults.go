package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default returns a configuration with every default applied. Load decodes the
// YAML file on top of it so absent keys keep their defaults.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			InferRepository: true,
		},
		Build: BuildConfig{
			DistDir:   "public",
			StaticDir: "static",
		},
		Releases: ReleasesConfig{
			Source:       ReleaseSourceGitHub,
			GitHubAPIURL: "https://api.github.com",
			ManifestName: "dist-manifest.json",
			Timeout:      30 * time.Second,
			Retry: RetryConfig{
				Mode:       RetryBackoffLinear,
				Initial:    time.Second,
				Max:        10 * time.Second,
				MaxRetries: 2,
			},
		},
		Styles: StylesConfig{
			Theme: "light",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

var readmeCandidates = []string{"README.md", "readme.md", "Readme.md", "README"}

var changelogCandidates = []string{"CHANGELOG.md", "changelog.md", "RELEASES.md"}

// applyDefaults fills values that depend on the project directory contents.
func (c *Config) applyDefaults() {
	if c.Project.Name == "" {
		c.Project.Name = filepath.Base(c.Root)
	}
	if c.Project.ReadmePath == "" {
		c.Project.ReadmePath = c.firstExisting(readmeCandidates, "README.md")
	}
	if c.Project.ChangelogPath == "" {
		c.Project.ChangelogPath = c.firstExisting(changelogCandidates, "")
	}
	if c.Styles.Title == "" {
		c.Styles.Title = c.Project.Name
	}
	c.Releases.Source = releaseSourceNormalizerOrRaw(c.Releases.Source)
	c.Releases.Retry.Mode = NormalizeRetryBackoff(string(c.Releases.Retry.Mode))
	if c.Components.Funding != nil && c.Components.Funding.YMLPath == "" && c.Components.Funding.MDPath == "" {
		c.Components.Funding.YMLPath = filepath.Join(".github", "FUNDING.yml")
	}
	if c.Components.Book != nil && c.Components.Book.BuildDir == "" {
		c.Components.Book.BuildDir = "book"
	}
}

// releaseSourceNormalizerOrRaw normalizes known kinds but keeps unknown input so
// Validate can report it.
func releaseSourceNormalizerOrRaw(raw ReleaseSourceKind) ReleaseSourceKind {
	if v, err := releaseSourceNormalizer.NormalizeWithError(string(raw)); err == nil {
		return v
	}
	return raw
}

func (c *Config) firstExisting(candidates []string, fallback string) string {
	for _, name := range candidates {
		if _, err := os.Stat(c.Path(name)); err == nil {
			return name
		}
	}
	return fallback
}

// Path resolves p against the project root. Absolute paths are returned unchanged.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DistPath is the absolute output directory.
func (c *Config) DistPath() string {
	return c.Path(c.Build.DistDir)
}
