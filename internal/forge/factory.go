package forge

import (
	"net/http"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/retry"
)

// NewReleaseClient returns the client for the configured release source.
func NewReleaseClient(cfg config.ReleasesConfig, httpClient *http.Client) (ReleaseClient, error) {
	policy := retry.FromConfig(cfg.Retry)
	switch cfg.Source {
	case config.ReleaseSourceGitHub, "":
		return NewGitHubClient(httpClient, cfg.GitHubAPIURL, cfg.Token, cfg.ManifestName, cfg.Timeout, policy), nil
	case config.ReleaseSourceHosted:
		if cfg.HostedAPIURL == "" {
			return nil, ErrUnsupportedSource.WithContext("source", string(cfg.Source)).
				WithContext("reason", "releases.hosted_api_url is not set")
		}
		return NewHostedClient(httpClient, cfg.HostedAPIURL, cfg.Token, cfg.Timeout, policy), nil
	default:
		return nil, ErrUnsupportedSource.WithContext("source", string(cfg.Source))
	}
}
