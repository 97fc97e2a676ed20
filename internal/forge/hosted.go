package forge

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/retry"
)

// HostedClient fetches releases from a hosted release registry exposing
// GET {api}/projects/{project}/releases.
type HostedClient struct {
	*BaseForge
}

// NewHostedClient creates a hosted-registry release client.
func NewHostedClient(httpClient *http.Client, apiURL, token string, timeout time.Duration, policy retry.Policy) *HostedClient {
	base := NewBaseForge(httpClient, apiURL, token, timeout, policy)
	base.SetCustomHeader("Accept", "application/json")
	return &HostedClient{BaseForge: base}
}

// Kind returns KindHosted.
func (c *HostedClient) Kind() Kind { return KindHosted }

type hostedAsset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type hostedRelease struct {
	TagName     string        `json:"tag_name"`
	Version     string        `json:"version"`
	Body        string        `json:"body"`
	PublishedAt *time.Time    `json:"published_at"`
	ManifestURL string        `json:"manifest_url"`
	Assets      []hostedAsset `json:"assets"`
}

type hostedListing struct {
	Releases []hostedRelease `json:"releases"`
}

func (c *HostedClient) list(ctx context.Context, repo Repo) ([]hostedRelease, error) {
	req, err := c.NewRequest(ctx, "/projects/"+url.PathEscape(repo.ProjectName())+"/releases")
	if err != nil {
		return nil, err
	}
	var listing hostedListing
	if _, err := c.DoRequest(req, &listing); err != nil {
		return nil, ErrSourceUnreachable.WithCause(err).WithContext("repository", repo.String())
	}
	return listing.Releases, nil
}

// FetchReleases lists the project's releases and downloads their manifests.
// Releases without a manifest_url are returned with a nil manifest.
func (c *HostedClient) FetchReleases(ctx context.Context, repo Repo) ([]RawRelease, error) {
	listed, err := c.list(ctx, repo)
	if err != nil {
		return nil, err
	}

	releases := make([]RawRelease, 0, len(listed))
	for _, hr := range listed {
		tag := hr.TagName
		if tag == "" {
			tag = hr.Version
		}
		raw := RawRelease{Tag: tag, Name: hr.Version, Body: hr.Body, PublishedAt: hr.PublishedAt}
		for _, a := range hr.Assets {
			raw.Assets = append(raw.Assets, Asset{Name: a.Name, DownloadURL: a.URL})
		}
		if hr.ManifestURL != "" {
			if data, err := c.Download(ctx, hr.ManifestURL); err == nil {
				raw.Manifest = data
			}
		}
		releases = append(releases, raw)
	}
	return releases, nil
}

// HasReleases reports whether the listing is non-empty.
func (c *HostedClient) HasReleases(ctx context.Context, repo Repo) (bool, error) {
	listed, err := c.list(ctx, repo)
	if err != nil {
		return false, err
	}
	return len(listed) > 0, nil
}
