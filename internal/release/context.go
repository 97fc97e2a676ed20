package release

import (
	"context"
	stderrors "errors"
	"log/slog"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// Downloader fetches an artifact's content.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Context is the release history of one project, newest first.
type Context struct {
	Releases []*Release

	// SourceErr is the unreachable-source failure absorbed while building the
	// context. The releases are then the working-tree placeholder.
	SourceErr error
}

// NewCurrentContext returns a context holding only the current-working-tree placeholder.
func NewCurrentContext(project ProjectInfo) *Context {
	v := project.Version
	if v == "" {
		v = "current"
	}
	title := v
	if project.Revision != "" {
		title = v + " (" + project.Revision + ")"
	}
	return &Context{Releases: []*Release{{
		Version:   v,
		Title:     title,
		Source:    SourceCurrentWorkingTree,
		Changelog: project.Changelog,
		Status:    StatusFull,
	}}}
}

// Latest returns the newest release whose manifest was not unparseable, or nil.
func (c *Context) Latest() *Release {
	if c == nil {
		return nil
	}
	for _, r := range c.Releases {
		if r.Status != StatusUnparseable {
			return r
		}
	}
	return nil
}

// OnlyCurrentState reports whether the context holds just the placeholder release.
func (c *Context) OnlyCurrentState() bool {
	return c != nil && len(c.Releases) == 1 && c.Releases[0].Source.IsCurrentState()
}

// HasArtifacts reports whether any release carries artifacts.
func (c *Context) HasArtifacts() bool {
	if c == nil {
		return false
	}
	for _, r := range c.Releases {
		if len(r.Artifacts) > 0 {
			return true
		}
	}
	return false
}

// MakeLatestViewable downloads the script artifacts of the latest release so their
// text can be shown inline. Scripts that fail to download stay hot-linked; the
// failures are returned joined under a warning-severity component error.
func (c *Context) MakeLatestViewable(ctx context.Context, d Downloader, logger *slog.Logger) error {
	latest := c.Latest()
	if latest == nil || d == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	var failures []error
	for i := range latest.Artifacts {
		a := &latest.Artifacts[i]
		if !a.IsScript() || a.DownloadURL == "" {
			continue
		}
		data, err := d.Download(ctx, a.DownloadURL)
		if err != nil {
			logger.Warn("Failed to inline install script, linking instead",
				logfields.Tag(latest.Version), logfields.URL(a.DownloadURL), logfields.Error(err))
			failures = append(failures, err)
			continue
		}
		a.Content = string(data)
		a.Viewable = true
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.ComponentError("install scripts could not be inlined").
		WithCause(stderrors.Join(failures...)).
		WithContext("tag", latest.Version).
		Build()
}
