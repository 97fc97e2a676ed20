package forge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

func newGitHubServer(t *testing.T, releasesJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/acme/widget/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		if r.URL.Query().Get("page") != "" && r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(releasesJSON, "{{base}}", srv.URL)))
	})
	mux.HandleFunc("/download/v2.0.0/dist-manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"schema_version":"1.0.0","announcement_tag":"v2.0.0"}`))
	})
	mux.HandleFunc("/download/v1.0.0/dist-manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const githubReleases = `[
  {"tag_name": "v3.0.0-draft", "draft": true, "assets": []},
  {"tag_name": "v2.0.0", "name": "Two", "body": "notes", "published_at": "2024-05-01T10:00:00Z",
   "assets": [{"name": "dist-manifest.json", "browser_download_url": "{{base}}/download/v2.0.0/dist-manifest.json"},
              {"name": "app.tar.gz", "browser_download_url": "{{base}}/download/v2.0.0/app.tar.gz"}]},
  {"tag_name": "v1.5.0", "assets": [{"name": "app.tar.gz", "browser_download_url": "{{base}}/x"}]},
  {"tag_name": "v1.0.0", "published_at": "2023-01-01T00:00:00Z",
   "assets": [{"name": "dist-manifest.json", "browser_download_url": "{{base}}/download/v1.0.0/dist-manifest.json"}]}
]`

func TestGitHubClient_FetchReleases(t *testing.T) {
	srv := newGitHubServer(t, githubReleases)
	client := NewGitHubClient(srv.Client(), srv.URL, "", "dist-manifest.json", 0, fastPolicy(0))

	releases, err := client.FetchReleases(context.Background(), Repo{Owner: "acme", Name: "widget"})
	require.NoError(t, err)
	require.Len(t, releases, 2, "drafts and releases without manifest are dropped")

	assert.Equal(t, "v2.0.0", releases[0].Tag)
	assert.Equal(t, "notes", releases[0].Body)
	require.NotNil(t, releases[0].PublishedAt)
	assert.Equal(t, 2024, releases[0].PublishedAt.Year())
	assert.JSONEq(t, `{"schema_version":"1.0.0","announcement_tag":"v2.0.0"}`, string(releases[0].Manifest))
	assert.Equal(t, srv.URL+"/download/v2.0.0/app.tar.gz", releases[0].AssetURL("app.tar.gz"))

	assert.Equal(t, "v1.0.0", releases[1].Tag)
	assert.Nil(t, releases[1].Manifest, "failed manifest download leaves the release without a manifest")
}

func TestGitHubClient_EmptyHistory(t *testing.T) {
	srv := newGitHubServer(t, `[]`)
	client := NewGitHubClient(srv.Client(), srv.URL, "", "dist-manifest.json", 0, fastPolicy(0))

	releases, err := client.FetchReleases(context.Background(), Repo{Owner: "acme", Name: "widget"})
	require.NoError(t, err)
	assert.Empty(t, releases)

	has, err := client.HasReleases(context.Background(), Repo{Owner: "acme", Name: "widget"})
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGitHubClient_UnknownRepository(t *testing.T) {
	srv := newGitHubServer(t, `[]`)
	client := NewGitHubClient(srv.Client(), srv.URL, "", "dist-manifest.json", 0, fastPolicy(0))

	_, err := client.FetchReleases(context.Background(), Repo{Owner: "acme", Name: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnreachable)
	assert.True(t, ferrors.IsWarning(err))

	_, err = client.HasReleases(context.Background(), Repo{Owner: "acme", Name: "missing"})
	assert.ErrorIs(t, err, ErrSourceUnreachable)
}
