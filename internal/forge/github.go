package forge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/retry"
)

// DefaultGitHubAPIURL is used when no API URL is configured.
const DefaultGitHubAPIURL = "https://api.github.com"

const githubPageSize = 100

// GitHubClient fetches releases from the GitHub REST API.
type GitHubClient struct {
	*BaseForge
	manifestName string
}

// NewGitHubClient creates a GitHub release client. Releases are kept only when they
// carry an asset named manifestName.
func NewGitHubClient(httpClient *http.Client, apiURL, token, manifestName string, timeout time.Duration, policy retry.Policy) *GitHubClient {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	base := NewBaseForge(httpClient, apiURL, token, timeout, policy)
	base.SetCustomHeader("Accept", "application/vnd.github+json")
	base.SetCustomHeader("X-GitHub-Api-Version", "2022-11-28")
	return &GitHubClient{BaseForge: base, manifestName: manifestName}
}

// Kind returns KindGitHub.
func (c *GitHubClient) Kind() Kind { return KindGitHub }

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	Body        string        `json:"body"`
	Draft       bool          `json:"draft"`
	Prerelease  bool          `json:"prerelease"`
	PublishedAt *time.Time    `json:"published_at"`
	Assets      []githubAsset `json:"assets"`
}

// FetchReleases lists published releases carrying a manifest and downloads each
// manifest. Order follows the API, newest first.
func (c *GitHubClient) FetchReleases(ctx context.Context, repo Repo) ([]RawRelease, error) {
	listed, err := PaginatedFetch(ctx, "/repos/"+repo.String()+"/releases", githubPageSize,
		func(endpoint string) ([]githubRelease, error) {
			req, err := c.NewRequest(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			var page []githubRelease
			if _, err := c.DoRequest(req, &page); err != nil {
				return nil, err
			}
			return page, nil
		})
	if err != nil {
		return nil, ErrSourceUnreachable.WithCause(err).WithContext("repository", repo.String())
	}

	releases := make([]RawRelease, 0, len(listed))
	for _, gr := range listed {
		if gr.Draft {
			continue
		}
		raw := RawRelease{
			Tag:         gr.TagName,
			Name:        gr.Name,
			Body:        gr.Body,
			PublishedAt: gr.PublishedAt,
		}
		for _, a := range gr.Assets {
			raw.Assets = append(raw.Assets, Asset{Name: a.Name, DownloadURL: a.BrowserDownloadURL})
		}
		manifestURL := raw.AssetURL(c.manifestName)
		if manifestURL == "" {
			slog.Debug("Skipping release without manifest", logfields.Repository(repo.String()), logfields.Tag(gr.TagName))
			continue
		}
		data, err := c.Download(ctx, manifestURL)
		if err != nil {
			// The release stays in the history; the aggregator reports it as unparseable.
			slog.Debug("Failed to download manifest", logfields.Tag(gr.TagName), logfields.URL(manifestURL), logfields.Error(err))
		} else {
			raw.Manifest = data
		}
		releases = append(releases, raw)
	}
	return releases, nil
}

// HasReleases asks for a single release.
func (c *GitHubClient) HasReleases(ctx context.Context, repo Repo) (bool, error) {
	req, err := c.NewRequest(ctx, "/repos/"+repo.String()+"/releases?per_page=1")
	if err != nil {
		return false, err
	}
	var page []githubRelease
	if _, err := c.DoRequest(req, &page); err != nil {
		return false, ErrSourceUnreachable.WithCause(err).WithContext("repository", repo.String())
	}
	return len(page) > 0, nil
}
