package site

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/testutil"
)

const installScriptBody = "#!/bin/sh\necho installing widget\n"

type fakeClient struct {
	releases  []forge.RawRelease
	err       error
	has       bool
	downloads map[string]string
	fetches   int
}

func (f *fakeClient) Kind() forge.Kind { return forge.KindGitHub }

func (f *fakeClient) FetchReleases(context.Context, forge.Repo) ([]forge.RawRelease, error) {
	f.fetches++
	return f.releases, f.err
}

func (f *fakeClient) HasReleases(context.Context, forge.Repo) (bool, error) { return f.has, nil }

func (f *fakeClient) Download(_ context.Context, url string) ([]byte, error) {
	if body, ok := f.downloads[url]; ok {
		return []byte(body), nil
	}
	return nil, forge.ErrSourceUnreachable.WithContext("url", url)
}

func rawRelease(tag string, day int) forge.RawRelease {
	published := time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
	manifest := `{"schema_version":"1.0.0","announcement_tag":"` + tag + `",
		"announcement_changelog":"changes in ` + tag + `",
		"artifacts":[
			{"target":"x86_64-unknown-linux-gnu","name":"widget-x86_64-unknown-linux-gnu.tar.gz","kind":"archive"},
			{"target":"aarch64-apple-darwin","name":"widget-aarch64-apple-darwin.tar.gz","kind":"archive"},
			{"name":"widget-installer.sh","kind":"script"},
			{"name":"sha256.sum","kind":"checksum"}]}`
	base := "https://dl.example.com/" + tag + "/"
	return forge.RawRelease{
		Tag:         tag,
		PublishedAt: &published,
		Manifest:    []byte(manifest),
		Assets: []forge.Asset{
			{Name: "widget-x86_64-unknown-linux-gnu.tar.gz", DownloadURL: base + "widget-x86_64-unknown-linux-gnu.tar.gz"},
			{Name: "widget-aarch64-apple-darwin.tar.gz", DownloadURL: base + "widget-aarch64-apple-darwin.tar.gz"},
			{Name: "widget-installer.sh", DownloadURL: base + "widget-installer.sh"},
			{Name: "sha256.sum", DownloadURL: base + "sha256.sum"},
		},
	}
}

// newProject writes a project with a readme and the given configuration.
func newProject(t *testing.T, configYAML string) *config.Config {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "README.md"), "# Widget\n\nWidget makes widgets out of gadgets.\n")
	testutil.WriteFile(t, filepath.Join(root, config.ConfigFileName), configYAML)
	cfg, err := config.LoadDir(root)
	require.NoError(t, err)
	return cfg
}

func newTestBuilder(client forge.ReleaseClient) (*Builder, *testutil.LogRecorder) {
	logs, logger := testutil.NewLogRecorder()
	b := NewBuilder(logger)
	b.NewClient = func(config.ReleasesConfig, *http.Client) (forge.ReleaseClient, error) {
		if client == nil {
			return nil, stderrors.New("no client in test")
		}
		return client, nil
	}
	b.InferRepository = nil
	b.Revision = func(string) (string, error) { return "", stderrors.New("not a repository") }
	return b, logs
}

const fullConfig = `project:
  name: widget
  repository: https://github.com/acme/widget
  infer_repository: false
components:
  artifacts: {}
  changelog:
    rss_feed: true
`

func TestBuildFullSite(t *testing.T) {
	cfg := newProject(t, fullConfig)
	client := &fakeClient{
		releases: []forge.RawRelease{rawRelease("v1.1.0", 2), rawRelease("v1.0.0", 1)},
		downloads: map[string]string{
			"https://dl.example.com/v1.1.0/widget-installer.sh": installScriptBody,
		},
	}
	b, logs := newTestBuilder(client)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, logs.Warnings())
	assert.Equal(t, OutcomeSuccess, site.Report.Outcome)
	assert.Equal(t, 2, site.Report.Releases)
	assert.NotEmpty(t, site.Report.BuildID)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		HasFile("index.html").
		HasFile("artifacts/index.html").
		HasFile("artifacts.json").
		HasFile("changelog/index.html").
		HasFile("changelog/v1.1.0/index.html").
		HasFile("changelog/v1.0.0/index.html").
		HasFile("changelog.rss").
		HasFile("style.css").
		HasFile("favicon.svg").
		HasFile("os.js").
		FileContains("index.html", "Install v1.1.0").
		FileContains("index.html", "echo installing widget").
		FileContains("index.html", "Widget makes widgets").
		FileContains("artifacts/index.html", "widget-aarch64-apple-darwin.tar.gz").
		FileContains("artifacts.json", `"version": "v1.1.0"`).
		FileContains("changelog/index.html", "changes in v1.0.0").
		FileContains("changelog/v1.1.0/index.html", "changes in v1.1.0").
		FileContains("changelog.rss", "<title>v1.1.0</title>")

	require.NotNil(t, site.Page("index.html"))
	assert.Nil(t, site.Page("funding.html"))
}

// A source that cannot be reached still yields a site: the index is written,
// release-backed pages are absent and one warning names the repository.
func TestBuildFetchFailureDegrades(t *testing.T) {
	cfg := newProject(t, fullConfig)
	client := &fakeClient{err: forge.ErrSourceUnreachable.WithCause(stderrors.New("connection refused"))}
	b, logs := newTestBuilder(client)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetches)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		HasFile("index.html").
		LacksPath("artifacts").
		LacksPath("artifacts.json").
		LacksPath("changelog").
		LacksPath("changelog.rss")

	warnings := logs.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "https://github.com/acme/widget", warnings[0].Attrs[logfields.KeyRepo])

	assert.Equal(t, OutcomeWarning, site.Report.Outcome)
	assert.Equal(t, StageResultSuccess, site.Report.Stage(StageBuildContext).Result)
	require.Len(t, site.Report.Warnings, 1)
	assert.Equal(t, StageBuildContext, site.Report.Warnings[0].Stage)
	assert.ErrorIs(t, site.Report.Warnings[0].Err, forge.ErrSourceUnreachable)

	assert.Equal(t, StageResultSkipped, site.Report.Stage(StageArtifacts).Result)
	assert.Equal(t, StageResultSkipped, site.Report.Stage(StageChangelog).Result)
}

func TestBuildWithoutRepositorySkipsReleaseData(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\ncomponents:\n  artifacts: {}\n")
	client := &fakeClient{}
	b, logs := newTestBuilder(client)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Zero(t, client.fetches)
	assert.Empty(t, logs.Warnings())
	assert.Equal(t, StageResultSkipped, site.Report.Stage(StageBuildContext).Result)

	files := testutil.NewSiteAssertions(t, cfg.DistPath()).HasFile("index.html").LacksPath("artifacts").Files()
	var html []string
	for _, f := range files {
		if strings.HasSuffix(f, ".html") {
			html = append(html, f)
		}
	}
	assert.Equal(t, []string{"index.html"}, html)
}

func TestBuildChecksForReleasesWhenNoComponentNeedsThem(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  repository: github.com/acme/widget\n  infer_repository: false\n")

	t.Run("no releases", func(t *testing.T) {
		client := &fakeClient{has: false}
		b, _ := newTestBuilder(client)
		site, err := b.Build(context.Background(), cfg, nil, Options{})
		require.NoError(t, err)
		assert.Zero(t, client.fetches)
		assert.Nil(t, site.Releases)
	})

	t.Run("has releases", func(t *testing.T) {
		client := &fakeClient{has: true, releases: []forge.RawRelease{rawRelease("v1.0.0", 1)}}
		b, _ := newTestBuilder(client)
		site, err := b.Build(context.Background(), cfg, nil, Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, client.fetches)
		require.NotNil(t, site.Releases)
		assert.Equal(t, "v1.0.0", site.Releases.Latest().Version)
	})
}

func TestBuildPlaceholderChangelogUsesLocalFile(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  version: 0.3.0\n  repository: github.com/acme/widget\n  infer_repository: false\ncomponents:\n  changelog: {}\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "CHANGELOG.md"), "## Unreleased\n\n- faster widgets\n")
	cfg.Project.ChangelogPath = "CHANGELOG.md"
	b, _ := newTestBuilder(&fakeClient{})

	_, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		HasFile("changelog/index.html").
		FileContains("changelog/index.html", "faster widgets").
		FileContains("changelog/index.html", "0.3.0").
		LacksPath("changelog/0.3.0").
		LacksPath("changelog.rss")
}

const fundingProject = `project:
  name: widget
  repository: https://github.com/acme/widget
  infer_repository: false
components:
`

func TestBuildFundingNeedsReleaseContext(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\ncomponents:\n  funding: {}\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, ".github", "FUNDING.yml"), "github: acme\n")
	b, _ := newTestBuilder(&fakeClient{})

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, site.Releases)
	assert.Equal(t, StageResultSkipped, site.Report.Stage(StageBuildContext).Result)
	assert.Equal(t, StageResultSkipped, site.Report.Stage(StageFunding).Result)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		HasFile("index.html").
		LacksPath("funding")
}

func TestBuildFundingFailureIsIsolated(t *testing.T) {
	cfg := newProject(t, fundingProject+"  funding: {}\n")
	b, logs := newTestBuilder(&fakeClient{})

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, site.Report.Outcome)
	assert.Equal(t, StageResultWarning, site.Report.Stage(StageFunding).Result)
	require.Len(t, site.Report.Warnings, 1)
	assert.Equal(t, StageFunding, site.Report.Warnings[0].Stage)
	assert.NotEmpty(t, logs.Warnings())

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		HasFile("index.html").
		LacksPath("funding")
}

func TestBuildFundingPage(t *testing.T) {
	cfg := newProject(t, fundingProject+"  funding:\n    preferred: ko_fi\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, ".github", "FUNDING.yml"), "github: acme\nko_fi: acmeco\n")
	b, _ := newTestBuilder(&fakeClient{})

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, site.Report.Outcome)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		FileContains("funding/index.html", "https://github.com/sponsors/acme").
		FileContains("funding/index.html", "Support on Ko-fi").
		FileContains("index.html", `href="/funding/"`)
}

func TestBuildPreferredFundingNotFoundWarns(t *testing.T) {
	cfg := newProject(t, fundingProject+"  funding:\n    preferred: patreon\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, ".github", "FUNDING.yml"), "github: acme\n")
	b, _ := newTestBuilder(&fakeClient{})

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, site.Report.Outcome)
	assert.Equal(t, StageResultSuccess, site.Report.Stage(StageFunding).Result)
	testutil.NewSiteAssertions(t, cfg.DistPath()).HasFile("funding/index.html")
}

func TestBuildAdditionalPages(t *testing.T) {
	cfg := newProject(t, `project:
  name: widget
  infer_repository: false
build:
  additional_pages:
    Getting Started: docs/start.md
    Logo: logo.png
`)
	testutil.WriteFile(t, filepath.Join(cfg.Root, "docs", "start.md"), "# Start\n\nRun the widget.\n")
	b, _ := newTestBuilder(nil)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, site.Report.Outcome)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		FileContains("getting-started/index.html", "Run the widget.").
		FileContains("index.html", "Getting Started").
		LacksPath("logo")
}

func TestBuildJSONOnly(t *testing.T) {
	cfg := newProject(t, fullConfig)
	b, _ := newTestBuilder(&fakeClient{releases: []forge.RawRelease{rawRelease("v2.0.0", 5)}})

	_, err := b.Build(context.Background(), cfg, nil, Options{JSONOnly: true})
	require.NoError(t, err)

	files := testutil.NewSiteAssertions(t, cfg.DistPath()).Files()
	assert.Equal(t, []string{"artifacts.json"}, files)
}

func TestBuildBook(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\ncomponents:\n  book:\n    path: guide\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "guide", "intro.md"), "# Introduction\n\nHello.\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "guide", "usage", "cli.md"), "# Command line\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "guide", "faq.md"), "# Q & A\n")
	b, _ := newTestBuilder(nil)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, StageResultSuccess, site.Report.Stage(StageBook).Result)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		FileContains("book/index.html", "Introduction").
		FileContains("book/index.html", `href="/book/usage/cli/"`).
		FileContains("book/index.html", `<ul class="book-chapters">`).
		FileContains("book/index.html", "Q &amp; A").
		FileContains("book/intro/index.html", "Hello.").
		HasFile("book/usage/cli/index.html").
		FileContains("index.html", "Docs")
}

func TestBuildBookInsideSourceIsRejected(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\ncomponents:\n  book:\n    path: .\n")
	b, _ := newTestBuilder(nil)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, StageResultWarning, site.Report.Stage(StageBook).Result)
	testutil.NewSiteAssertions(t, cfg.DistPath()).HasFile("index.html").LacksPath("book")
}

func TestBuildMissingReadmeFallsBackToDescription(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  description: Tiny <widgets>\n  infer_repository: false\n")
	require.NoError(t, os.Remove(filepath.Join(cfg.Root, "README.md")))
	b, _ := newTestBuilder(nil)

	site, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, site.Report.Outcome)
	testutil.NewSiteAssertions(t, cfg.DistPath()).FileContains("index.html", "<p>Tiny &lt;widgets&gt;</p>")
}

func TestBuildCSSOverrideAndFavicon(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\nstyles:\n  favicon: assets/icon.png\n  additional_css:\n    - extra.css\n")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "override.css"), "body { color: red; }")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "assets", "icon.png"), "png")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "extra.css"), ".extra {}")
	testutil.WriteFile(t, filepath.Join(cfg.Root, "static", "img", "logo.svg"), "<svg/>")
	cfg.Styles.CSSOverride = filepath.Join(cfg.Root, "override.css")
	b, _ := newTestBuilder(nil)

	_, err := b.Build(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)

	testutil.NewSiteAssertions(t, cfg.DistPath()).
		FileContains("style.css", "color: red").
		HasFile("icon.png").
		LacksPath("favicon.svg").
		HasFile("css/extra.css").
		HasFile("static/img/logo.svg").
		FileContains("index.html", `href="/css/extra.css"`).
		FileContains("index.html", `href="/icon.png"`)
}

func TestBuildSingleThenWrite(t *testing.T) {
	cfg := newProject(t, "project:\n  name: widget\n  infer_repository: false\nbuild:\n  path_prefix: /widget\n")
	b, _ := newTestBuilder(nil)

	site, err := b.BuildSingle(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	require.Len(t, site.Pages, 1)
	assert.Equal(t, "index.html", site.Pages[0].Filename)
	assert.Contains(t, string(site.Pages[0].Contents), `href="/widget/style.css"`)

	require.NoError(t, b.Write(context.Background(), site))
	testutil.NewSiteAssertions(t, cfg.DistPath()).HasFile("index.html").HasFile("style.css")

	require.Error(t, b.Write(context.Background(), &Site{}))
}
