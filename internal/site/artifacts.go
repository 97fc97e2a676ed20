package site

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/release"
)

const (
	artifactsPage = "artifacts.html"
	artifactsJSON = "artifacts.json"
	dateLayout    = "2006-01-02"
)

type installScript struct {
	Targets  string
	Name     string
	Viewable bool
	Content  string
	URL      string
}

type installDownload struct {
	Target string
	URL    string
	Name   string
}

type artifactRow struct {
	URL    string
	Name   string
	Target string
	Kind   string
}

// installData is the install block shared by the artifacts page and the index.
type installData struct {
	Version     string
	PublishedAt string
	Scripts     []installScript
	Downloads   []installDownload
	Table       []artifactRow
}

type artifactsManifest struct {
	Project     string          `json:"project"`
	Version     string          `json:"version"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	Artifacts   []artifactEntry `json:"artifacts"`
}

type artifactEntry struct {
	Name        string `json:"name"`
	Target      string `json:"target,omitempty"`
	Kind        string `json:"kind"`
	DownloadURL string `json:"download_url,omitempty"`
}

// stageArtifacts renders the install page and artifacts.json for the latest release.
func stageArtifacts(ctx context.Context, bs *buildState) error {
	latest := bs.releases.Latest()
	if latest == nil || latest.Source.IsCurrentState() || len(latest.Artifacts) == 0 {
		return errStageSkipped
	}

	raw, err := artifactsJSONFor(bs.cfg.Project.Name, latest)
	if err != nil {
		return err
	}
	bs.addFragment(fragment{Filename: artifactsJSON, Raw: raw})
	if bs.opts.JSONOnly {
		return nil
	}

	if client, err := bs.releaseClient(); err == nil {
		if err := bs.releases.MakeLatestViewable(ctx, client, bs.logger); err != nil {
			bs.report.addWarning(StageArtifacts, err)
		}
	}

	data := installFor(latest, hiddenTargets(bs))
	body, err := bs.theme.render("artifacts", data)
	if err != nil {
		return err
	}
	bs.install = data
	bs.addFragment(fragment{Filename: artifactsPage, Title: "Install", NavLabel: "Install", Body: body, Install: true})
	return nil
}

func hiddenTargets(bs *buildState) []string {
	if a := bs.cfg.Components.Artifacts; a != nil {
		return a.HideTargets
	}
	return nil
}

func installFor(r *release.Release, hidden []string) *installData {
	data := &installData{Version: r.Version}
	if r.PublishedAt != nil {
		data.PublishedAt = r.PublishedAt.Format(dateLayout)
	}
	for _, a := range r.Artifacts {
		if a.Target != "" && slices.Contains(hidden, a.Target) {
			continue
		}
		data.Table = append(data.Table, artifactRow{URL: a.DownloadURL, Name: a.Name, Target: a.Target, Kind: a.Kind})
		switch {
		case a.IsScript():
			data.Scripts = append(data.Scripts, installScript{
				Targets: a.Target, Name: a.Name, Viewable: a.Viewable, Content: a.Content, URL: a.DownloadURL,
			})
		case a.Kind != release.KindChecksum:
			data.Downloads = append(data.Downloads, installDownload{Target: a.Target, URL: a.DownloadURL, Name: a.Name})
		}
	}
	return data
}

func artifactsJSONFor(project string, r *release.Release) ([]byte, error) {
	doc := artifactsManifest{Project: project, Version: r.Version, PublishedAt: r.PublishedAt, Artifacts: []artifactEntry{}}
	for _, a := range r.Artifacts {
		doc.Artifacts = append(doc.Artifacts, artifactEntry{Name: a.Name, Target: a.Target, Kind: a.Kind, DownloadURL: a.DownloadURL})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.ComponentError("failed to encode artifacts.json").WithCause(err).Build()
	}
	return append(out, '\n'), nil
}
