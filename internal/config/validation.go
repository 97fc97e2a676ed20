package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

// Validate checks the invariants needed to decide what to build. Every error is fatal.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Build.DistDir) == "" {
		return ferrors.ConfigError("build.dist_dir must not be empty").Build()
	}
	if err := c.validateDistDir(); err != nil {
		return err
	}
	if _, err := releaseSourceNormalizer.NormalizeWithError(string(c.Releases.Source)); err != nil {
		return ferrors.ConfigError("unknown releases.source").
			WithCause(err).
			WithContext("source", string(c.Releases.Source)).
			Build()
	}
	if c.Releases.Source == ReleaseSourceHosted && c.Releases.HostedAPIURL == "" {
		return ferrors.ConfigError("hosted release source requires releases.hosted_api_url").Build()
	}
	if c.Releases.Timeout <= 0 {
		return ferrors.ConfigError("releases.timeout must be positive").Build()
	}
	if c.Releases.Retry.MaxRetries < 0 {
		return ferrors.ConfigError("releases.retry.max_retries cannot be negative").Build()
	}
	return nil
}

// validateDistDir refuses output directories that would swallow the project on cleanup.
func (c *Config) validateDistDir() error {
	dist := filepath.Clean(c.DistPath())
	root := filepath.Clean(c.Root)
	rel, err := filepath.Rel(dist, root)
	if err == nil && (rel == "." || !strings.HasPrefix(rel, "..")) {
		return ferrors.ConfigError("build.dist_dir must not contain the project directory").
			WithContext("dist_dir", dist).
			WithContext("root", root).
			Build()
	}
	return nil
}
