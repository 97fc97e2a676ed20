package site

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/eventstore"
	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/git"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/markdown"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
	"git.home.luguber.info/inful/projectsite/internal/release"
)

// Options tweak a single build.
type Options struct {
	// JSONOnly emits artifacts.json and nothing else.
	JSONOnly bool
}

// WorkspaceMember is one project built as part of a workspace.
type WorkspaceMember struct {
	Slug   string
	Path   string
	Config *config.Config
}

// Site is the rendered page set of one project.
type Site struct {
	Pages    []Page
	Member   *WorkspaceMember
	Report   *Report
	Releases *release.Context

	state *buildState
}

// Page returns the page with the given filename, or nil.
func (s *Site) Page(filename string) *Page {
	for i := range s.Pages {
		if s.Pages[i].Filename == filename {
			return &s.Pages[i]
		}
	}
	return nil
}

// Builder runs site builds. The zero value is not usable; use NewBuilder.
type Builder struct {
	Logger     *slog.Logger
	Recorder   metrics.Recorder
	History    eventstore.Store
	HTTPClient *http.Client

	// Hooks replaced in tests.
	NewClient       func(cfg config.ReleasesConfig, httpClient *http.Client) (forge.ReleaseClient, error)
	InferRepository func(root string) (string, error)
	Revision        func(root string) (string, error)
}

// NewBuilder returns a Builder backed by the real forge clients and git.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		Logger:          logger,
		Recorder:        metrics.NoopRecorder{},
		HTTPClient:      http.DefaultClient,
		NewClient:       forge.NewReleaseClient,
		InferRepository: git.InferRepository,
		Revision:        git.HeadShort,
	}
}

// BuildSingle renders the pages of one project without writing them. The output
// directory is prepared as part of the build.
func (b *Builder) BuildSingle(ctx context.Context, cfg *config.Config, member *WorkspaceMember, opts Options) (*Site, error) {
	bs, err := b.newState(cfg, member, opts)
	if err != nil {
		return nil, err
	}
	if err := runStages(ctx, bs, renderStages(bs)); err != nil {
		return nil, err
	}
	return bs.site(member), nil
}

// Write writes a rendered site, then the book and static assets.
func (b *Builder) Write(ctx context.Context, s *Site) error {
	if s == nil || s.state == nil {
		return errors.InternalError("site was not produced by BuildSingle").Build()
	}
	return runStages(ctx, s.state, writeStages(s.state))
}

// Build renders and writes one project, then records the outcome in metrics and
// the build history. The returned Site and its Report are set even when the
// build fails in a stage.
func (b *Builder) Build(ctx context.Context, cfg *config.Config, member *WorkspaceMember, opts Options) (*Site, error) {
	bs, err := b.newState(cfg, member, opts)
	if err != nil {
		return nil, err
	}
	b.appendHistory(ctx, bs, eventstore.NewBuildStarted(bs.report.BuildID, eventstore.BuildStartedPayload{
		Project: cfg.Project.Name,
		Member:  bs.member,
		Planned: cfg.Components.Planned(),
	}))
	bs.logger.Info("Building site", logfields.Path(cfg.DistPath()))

	err = runStages(ctx, bs, append(renderStages(bs), writeStages(bs)...))
	bs.report.Pages = len(bs.pages)
	bs.report.finish()
	b.finishBuild(ctx, bs)
	return bs.site(member), err
}

func (b *Builder) newState(cfg *config.Config, member *WorkspaceMember, opts Options) (*buildState, error) {
	if cfg == nil {
		return nil, errors.InternalError("build started without configuration").Build()
	}
	th, err := loadTheme()
	if err != nil {
		return nil, err
	}
	slug := ""
	if member != nil {
		slug = member.Slug
	}
	buildID := uuid.NewString()
	logger := b.logger().With(logfields.BuildID(buildID))
	if slug != "" {
		logger = logger.With(logfields.Member(slug))
	}
	bs := &buildState{
		cfg:      cfg,
		member:   slug,
		opts:     opts,
		logger:   logger,
		recorder: b.recorder(),
		report:   newReport(buildID, cfg.Project.Name, slug),
		renderer: markdown.NewRenderer(),
		theme:    th,
		newClient: func(rc config.ReleasesConfig) (forge.ReleaseClient, error) {
			return b.newClient()(rc, b.httpClient())
		},
	}
	bs.project = b.projectInfo(cfg, logger)
	return bs, nil
}

func (bs *buildState) site(member *WorkspaceMember) *Site {
	return &Site{Pages: bs.pages, Member: member, Report: bs.report, Releases: bs.releases, state: bs}
}

// projectInfo collects what the release aggregator needs from the working tree.
func (b *Builder) projectInfo(cfg *config.Config, logger *slog.Logger) release.ProjectInfo {
	info := release.ProjectInfo{
		Name:       cfg.Project.Name,
		Version:    cfg.Project.Version,
		Repository: cfg.Project.Repository,
	}
	if info.Repository == "" && cfg.Project.InferRepository && b.InferRepository != nil {
		repo, err := b.InferRepository(cfg.Root)
		if err != nil {
			logger.Debug("Repository not inferred from git", logfields.Path(cfg.Root), logfields.Error(err))
		} else {
			info.Repository = repo
		}
	}
	if b.Revision != nil {
		if rev, err := b.Revision(cfg.Root); err == nil {
			info.Revision = rev
		}
	}
	if cfg.Project.ChangelogPath != "" {
		if data, err := os.ReadFile(cfg.Path(cfg.Project.ChangelogPath)); err == nil {
			info.Changelog = string(data)
		}
	}
	return info
}

func renderStages(bs *buildState) []StageDef {
	comps := bs.cfg.Components
	pages := !bs.opts.JSONOnly
	return NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageBuildContext, stageBuildContext).
		AddComponentIf(comps.ArtifactsEnabled(), StageArtifacts, stageArtifacts).
		AddComponentIf(pages && comps.Changelog != nil, StageChangelog, stageChangelog).
		AddComponentIf(pages && comps.Funding != nil, StageFunding, stageFunding).
		AddComponentIf(pages, StageAdditionalPages, stageAdditionalPages).
		AddIf(pages, StageIndex, stageIndex).
		AddIf(!pages, StageIndex, stageRawOnly).
		Build()
}

func writeStages(bs *buildState) []StageDef {
	pages := !bs.opts.JSONOnly
	return NewPipeline().
		Add(StageWritePages, stageWritePages).
		AddComponentIf(pages && bs.cfg.Components.Book != nil, StageBook, stageBook).
		AddIf(pages, StageAssets, stageAssets).
		Build()
}

func stagePrepareOutput(_ context.Context, bs *buildState) error {
	dist := bs.cfg.DistPath()
	if within(dist, bs.cfg.Root) {
		return errors.StructuralIOError("output directory contains the project").
			WithContext("path", dist).
			WithHelp("set build.dist_dir to a subdirectory of the project").Build()
	}
	return prepareOutput(dist)
}

// stageBuildContext fetches release history when a component needs it or the
// repository has releases. Failures fall back to the working-tree placeholder.
func stageBuildContext(ctx context.Context, bs *buildState) error {
	if bs.project.Repository == "" {
		return errStageSkipped
	}
	client, err := bs.releaseClient()
	if err != nil {
		bs.releases = release.NewCurrentContext(bs.project)
		return errors.WrapError(err, errors.KindConfig, "release client unavailable").Warning().Build()
	}
	if !bs.cfg.Components.NeedsReleaseData() && !bs.hasReleases(ctx, client) {
		return errStageSkipped
	}

	agg := release.NewAggregator(client)
	agg.Logger = bs.logger
	agg.Recorder = bs.recorder
	rc, err := agg.Build(ctx, bs.project)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		bs.releases = release.NewCurrentContext(bs.project)
		return errors.WrapError(err, errors.GetKind(err), "release data unavailable, building from the working tree").
			Warning().WithContext("repository", bs.project.Repository).Build()
	}
	bs.releases = rc
	bs.report.Releases = len(rc.Releases)
	if rc.SourceErr != nil {
		// Already logged by the aggregator.
		bs.report.addWarning(StageBuildContext, rc.SourceErr)
	}
	return nil
}

func (bs *buildState) hasReleases(ctx context.Context, client forge.ReleaseClient) bool {
	repo, err := forge.ParseRepo(bs.project.Repository)
	if err != nil {
		return false
	}
	repo.Project = bs.project.Name
	has, err := client.HasReleases(ctx, repo)
	if err != nil {
		bs.logger.Warn("Could not check for releases", logfields.Repository(bs.project.Repository), logfields.Error(err))
		return false
	}
	return has
}

// stageRawOnly emits only machine-readable files.
func stageRawOnly(_ context.Context, bs *buildState) error {
	bs.pages = bs.pages[:0]
	for _, f := range bs.fragments {
		if f.Raw != nil {
			bs.pages = append(bs.pages, Page{Filename: f.Filename, Contents: f.Raw})
		}
	}
	return nil
}

func stageWritePages(_ context.Context, bs *buildState) error {
	return Writer{Dist: bs.cfg.DistPath()}.Write(bs.pages)
}

func (b *Builder) finishBuild(ctx context.Context, bs *buildState) {
	r := bs.report
	b.recorder().ObserveBuildDuration(r.Duration())
	b.recorder().IncBuildOutcome(metrics.OutcomeLabel(r.Outcome))

	for _, s := range r.Stages {
		p := eventstore.StageCompletedPayload{Stage: string(s.Name), Result: string(s.Result), DurationMS: s.Duration.Milliseconds()}
		if s.Err != nil {
			p.Error = s.Err.Error()
		}
		b.appendHistory(ctx, bs, eventstore.NewStageCompleted(r.BuildID, p))
	}
	for _, w := range r.Warnings {
		b.appendHistory(ctx, bs, eventstore.NewBuildWarning(r.BuildID, eventstore.BuildWarningPayload{
			Stage:   string(w.Stage),
			Kind:    string(errors.GetKind(w.Err)),
			Message: w.Err.Error(),
		}))
	}
	done := eventstore.BuildCompletedPayload{
		Outcome:    string(r.Outcome),
		DurationMS: r.Duration().Milliseconds(),
		Pages:      r.Pages,
		Releases:   r.Releases,
	}
	if r.Err != nil {
		done.Error = r.Err.Error()
	}
	b.appendHistory(ctx, bs, eventstore.NewBuildCompleted(r.BuildID, done))

	log := bs.logger.With(logfields.DurationMS(float64(r.Duration().Milliseconds())))
	switch r.Outcome {
	case OutcomeFailed:
		log.Error("Build failed", logfields.Error(r.Err))
	case OutcomeWarning:
		log.Warn("Build completed with warnings", slog.Int("warnings", len(r.Warnings)), slog.Int("pages", r.Pages))
	default:
		log.Info("Build completed", slog.Int("pages", r.Pages), slog.Int("releases", r.Releases))
	}
}

// appendHistory stores an event. History is best effort: failures are logged.
func (b *Builder) appendHistory(ctx context.Context, bs *buildState, e eventstore.Event) {
	if b.History == nil {
		return
	}
	if err := b.History.Append(context.WithoutCancel(ctx), e); err != nil && !stderrors.Is(err, context.Canceled) {
		bs.logger.Warn("Failed to record build event", slog.String("event", e.Type), logfields.Error(err))
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Builder) recorder() metrics.Recorder {
	if b.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return b.Recorder
}

func (b *Builder) httpClient() *http.Client {
	if b.HTTPClient == nil {
		return http.DefaultClient
	}
	return b.HTTPClient
}

func (b *Builder) newClient() func(config.ReleasesConfig, *http.Client) (forge.ReleaseClient, error) {
	if b.NewClient == nil {
		return forge.NewReleaseClient
	}
	return b.NewClient
}
