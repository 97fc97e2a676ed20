package config

import "time"

// ConfigFileName is the per-project configuration file looked up in a project root.
const ConfigFileName = "projectsite.yaml"

// Config is the fully resolved configuration of one project build.
type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Build      BuildConfig      `yaml:"build"`
	Releases   ReleasesConfig   `yaml:"releases"`
	Components ComponentsConfig `yaml:"components"`
	Styles     StylesConfig     `yaml:"styles"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Root is the project directory. Every relative path in the config resolves against it.
	Root string `yaml:"-"`
}

// ProjectConfig describes the project the site is generated for.
type ProjectConfig struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version,omitempty"`
	Description     string `yaml:"description,omitempty"`
	Homepage        string `yaml:"homepage,omitempty"`
	Repository      string `yaml:"repository,omitempty"`
	InferRepository bool   `yaml:"infer_repository"`
	ReadmePath      string `yaml:"readme_path"`
	ChangelogPath   string `yaml:"changelog_path,omitempty"`
	License         string `yaml:"license,omitempty"`
}

// BuildConfig controls where output goes and what extra content is included.
type BuildConfig struct {
	DistDir   string `yaml:"dist_dir"`
	StaticDir string `yaml:"static_dir"`
	// PathPrefix is prepended to every generated link (e.g. for GitHub Pages project sites).
	PathPrefix string `yaml:"path_prefix,omitempty"`
	// AdditionalPages maps a page title to a markdown file.
	AdditionalPages map[string]string `yaml:"additional_pages,omitempty"`
	// HistoryDB is an optional sqlite file recording build events.
	HistoryDB string `yaml:"history_db,omitempty"`
}

// ReleaseSourceKind selects which upstream release service is queried.
type ReleaseSourceKind string

const (
	ReleaseSourceGitHub ReleaseSourceKind = "github"
	ReleaseSourceHosted ReleaseSourceKind = "hosted"
)

// ReleasesConfig configures the release source clients.
type ReleasesConfig struct {
	Source       ReleaseSourceKind `yaml:"source"`
	GitHubAPIURL string            `yaml:"github_api_url"`
	HostedAPIURL string            `yaml:"hosted_api_url"`
	Token        string            `yaml:"token,omitempty"`
	// ManifestName is the release asset holding the build manifest.
	ManifestName string        `yaml:"manifest_name"`
	Timeout      time.Duration `yaml:"timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig mirrors retry.Policy fields.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries int              `yaml:"max_retries"`
}

// ComponentsConfig enables optional site components. A nil section is disabled.
type ComponentsConfig struct {
	Artifacts *ArtifactsConfig `yaml:"artifacts,omitempty"`
	Changelog *ChangelogConfig `yaml:"changelog,omitempty"`
	Funding   *FundingConfig   `yaml:"funding,omitempty"`
	Book      *BookConfig      `yaml:"book,omitempty"`
}

type ArtifactsConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	// HideTargets lists target triples never shown on the install page.
	HideTargets []string `yaml:"hide_targets,omitempty"`
}

type ChangelogConfig struct {
	RSSFeed bool `yaml:"rss_feed"`
}

type FundingConfig struct {
	YMLPath   string `yaml:"yml_path,omitempty"`
	MDPath    string `yaml:"md_path,omitempty"`
	Preferred string `yaml:"preferred,omitempty"`
}

type BookConfig struct {
	Path     string `yaml:"path"`
	BuildDir string `yaml:"build_dir,omitempty"`
}

// StylesConfig controls look and feel.
type StylesConfig struct {
	Title         string   `yaml:"title,omitempty"`
	Theme         string   `yaml:"theme"`
	Favicon       string   `yaml:"favicon,omitempty"`
	AdditionalCSS []string `yaml:"additional_css,omitempty"`

	// CSSOverride replaces the bundled stylesheet. Set from PROJECTSITE_CSS only.
	CSSOverride string `yaml:"-"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ArtifactsEnabled reports whether the artifacts component is on.
func (c ComponentsConfig) ArtifactsEnabled() bool {
	return c.Artifacts != nil && (c.Artifacts.Enabled == nil || *c.Artifacts.Enabled)
}

// NeedsReleaseData reports whether any enabled component consumes release history.
func (c ComponentsConfig) NeedsReleaseData() bool {
	return c.ArtifactsEnabled() || c.Changelog != nil || c.Funding != nil
}

// Planned returns the enabled component names in build order.
func (c ComponentsConfig) Planned() []string {
	var planned []string
	if c.ArtifactsEnabled() {
		planned = append(planned, "artifacts")
	}
	if c.Changelog != nil {
		planned = append(planned, "changelog")
	}
	if c.Funding != nil {
		planned = append(planned, "funding")
	}
	if c.Book != nil {
		planned = append(planned, "book")
	}
	return planned
}
