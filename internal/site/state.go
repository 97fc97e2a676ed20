package site

import (
	"html/template"
	"log/slog"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/markdown"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
	"git.home.luguber.info/inful/projectsite/internal/release"
)

// fragment is a component's contribution to the site. HTML bodies are wrapped in
// the layout by the index stage; Raw files are emitted as they are.
type fragment struct {
	Filename string
	Title    string
	NavLabel string
	Body     template.HTML
	Raw      []byte
	// Install pages load the platform-detection script.
	Install bool
}

// buildState carries the data shared between the stages of one project build.
type buildState struct {
	cfg      *config.Config
	member   string
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	report   *Report
	renderer *markdown.Renderer
	theme    *theme

	newClient func(config.ReleasesConfig) (forge.ReleaseClient, error)
	client    forge.ReleaseClient

	project  release.ProjectInfo
	releases *release.Context
	install  *installData

	fragments []fragment
	pages     []Page
}

// prefix is the configured link prefix without a trailing slash.
func (bs *buildState) prefix() string { return bs.cfg.Build.PathPrefix }

func (bs *buildState) href(filename string) string { return Href(bs.prefix(), filename) }

func (bs *buildState) addFragment(f fragment) { bs.fragments = append(bs.fragments, f) }

// warn records a degradation that leaves the current stage's output in place.
func (bs *buildState) warn(stage StageName, msg string, err error, attrs ...any) {
	bs.report.addWarning(stage, err)
	args := append([]any{logfields.Stage(string(stage)), logfields.Error(err)}, attrs...)
	bs.logger.Warn(msg, args...)
}

// releaseClient returns the forge client, creating it on first use.
func (bs *buildState) releaseClient() (forge.ReleaseClient, error) {
	if bs.client != nil {
		return bs.client, nil
	}
	c, err := bs.newClient(bs.cfg.Releases)
	if err != nil {
		return nil, err
	}
	bs.client = c
	return c, nil
}
