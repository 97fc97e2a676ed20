package forge

import (
	"context"
	"time"
)

// Kind identifies which upstream service a release client talks to.
type Kind string

const (
	KindGitHub Kind = "github"
	KindHosted Kind = "hosted"
)

// Repo identifies a repository on a release source.
type Repo struct {
	Owner string
	Name  string
	// Project is the project name used by registries that key releases by
	// project rather than repository. Empty means Name.
	Project string
}

// ProjectName returns Project, or Name when no project name is set.
func (r Repo) ProjectName() string {
	if r.Project != "" {
		return r.Project
	}
	return r.Name
}

// String returns "owner/name".
func (r Repo) String() string { return r.Owner + "/" + r.Name }

// Asset is a file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
}

// RawRelease is a release as fetched from an upstream source, before manifest parsing.
// Manifest is nil when the release carried no manifest document.
type RawRelease struct {
	Tag         string
	Name        string
	Body        string
	PublishedAt *time.Time
	Manifest    []byte
	Assets      []Asset
}

// AssetURL returns the download URL of the named asset, or "".
func (r RawRelease) AssetURL(name string) string {
	for _, a := range r.Assets {
		if a.Name == name {
			return a.DownloadURL
		}
	}
	return ""
}

// ReleaseClient fetches release history from one upstream source.
type ReleaseClient interface {
	Kind() Kind
	// FetchReleases returns releases newest first. Zero qualifying releases is an
	// empty slice and a nil error.
	FetchReleases(ctx context.Context, repo Repo) ([]RawRelease, error)
	// HasReleases reports whether the repository has at least one release.
	HasReleases(ctx context.Context, repo Repo) (bool, error)
	// Download fetches an arbitrary release asset.
	Download(ctx context.Context, url string) ([]byte, error)
}
