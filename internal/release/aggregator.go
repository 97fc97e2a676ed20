package release

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/manifest"
	"git.home.luguber.info/inful/projectsite/internal/metrics"
)

// Fetcher is the part of a forge client the aggregator uses.
type Fetcher interface {
	Kind() forge.Kind
	FetchReleases(ctx context.Context, repo forge.Repo) ([]forge.RawRelease, error)
}

// Aggregator builds a release Context from an upstream source.
type Aggregator struct {
	Client   Fetcher
	Parser   *manifest.Parser
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// NewAggregator returns an aggregator with the default parser, logger and a no-op recorder.
func NewAggregator(client Fetcher) *Aggregator {
	return &Aggregator{Client: client, Parser: manifest.NewParser(), Logger: slog.Default(), Recorder: metrics.NoopRecorder{}}
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *Aggregator) recorder() metrics.Recorder {
	if a.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return a.Recorder
}

// Build fetches and parses the project's release history. A project without a
// repository, or whose source is unreachable, gets the placeholder context; the
// unreachable case is logged once. A malformed repository reference is returned
// as an error.
func (a *Aggregator) Build(ctx context.Context, project ProjectInfo) (*Context, error) {
	if project.Repository == "" {
		rc := NewCurrentContext(project)
		a.recorder().SetReleaseCount(project.Name, len(rc.Releases))
		return rc, nil
	}
	repo, err := forge.ParseRepo(project.Repository)
	if err != nil {
		return nil, err
	}
	if a.Client == nil {
		return nil, errors.InternalError("release aggregator has no client").Build()
	}
	parser := a.Parser
	if parser == nil {
		parser = manifest.NewParser()
	}
	log := a.logger()
	source := SourceFor(a.Client.Kind())

	start := time.Now()
	repo.Project = project.Name
	raws, err := a.Client.FetchReleases(ctx, repo)
	a.recorder().ObserveSourceFetch(string(source), time.Since(start), err == nil)
	var sourceErr error
	if err != nil {
		if !errors.HasKind(err, errors.KindSourceUnreachable) {
			return nil, err
		}
		sourceErr = err
		log.Warn("Release source unreachable, building without release data",
			logfields.Repository(project.Repository),
			logfields.Source(string(source)),
			logfields.Error(err))
		raws = nil
	}

	releases := make([]*Release, 0, len(raws))
	for _, raw := range raws {
		r := a.fromRaw(parser, source, raw)
		a.recorder().IncManifestOutcome(string(r.Status))
		switch r.Status {
		case StatusPartial:
			log.Warn("Release manifest only partially understood, artifacts omitted",
				logfields.Tag(raw.Tag), logfields.SchemaVersion(r.SchemaVersion), slog.String("reason", r.StatusReason))
		case StatusUnparseable:
			log.Warn("Release manifest could not be parsed",
				logfields.Tag(raw.Tag), slog.String("reason", r.StatusReason))
		}
		releases = append(releases, r)
	}

	var rc *Context
	if len(releases) == 0 {
		rc = NewCurrentContext(project)
	} else {
		rc = &Context{Releases: releases}
	}
	rc.SourceErr = sourceErr
	a.recorder().SetReleaseCount(project.Name, len(rc.Releases))
	return rc, nil
}

func (a *Aggregator) fromRaw(parser *manifest.Parser, source Source, raw forge.RawRelease) *Release {
	r := &Release{
		Version:     raw.Tag,
		Title:       raw.Name,
		PublishedAt: raw.PublishedAt,
		Source:      source,
		Changelog:   raw.Body,
	}
	if raw.Manifest == nil {
		r.Status = StatusUnparseable
		r.StatusReason = "release has no manifest"
		return r
	}

	out := parser.Parse(raw.Tag, raw.Manifest)
	r.Status = out.Status
	r.StatusReason = out.Reason
	r.SchemaVersion = out.SchemaVersion
	if out.Title != "" {
		r.Title = out.Title
	}
	if out.Status != StatusFull {
		return r
	}
	if out.Changelog != "" {
		r.Changelog = out.Changelog
	}
	for _, ma := range out.Artifacts {
		r.Artifacts = append(r.Artifacts, Artifact{
			Target:      ma.Target,
			Name:        ma.Name,
			Kind:        ma.Kind,
			DownloadURL: raw.AssetURL(ma.Name),
		})
	}
	return r
}
