package site

import (
	"context"
	"html/template"
	"path"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/release"
)

const (
	changelogPage = "changelog.html"
	changelogDir  = "changelog"
	changelogFeed = "changelog.rss"
)

type changelogEntry struct {
	Version     string
	Href        string
	Title       string
	PublishedAt string
	Notice      string
	Body        template.HTML

	published *time.Time
}

type changelogIndexData struct {
	FeedHref string
	Releases []changelogEntry
}

type changelogSingleData struct {
	IndexHref   string
	Title       string
	PublishedAt string
	Notice      string
	Body        template.HTML
}

// stageChangelog renders the release listing, one page per release and the optional feed.
// The current-state placeholder gets a listing only when a local changelog exists.
func stageChangelog(_ context.Context, bs *buildState) error {
	rc := bs.releases
	if rc == nil || len(rc.Releases) == 0 {
		return errStageSkipped
	}
	placeholder := rc.OnlyCurrentState()
	if placeholder && rc.Releases[0].Changelog == "" {
		return errStageSkipped
	}

	feed := !placeholder && bs.cfg.Components.Changelog != nil && bs.cfg.Components.Changelog.RSSFeed
	index := changelogIndexData{}
	if feed {
		index.FeedHref = bs.href(changelogFeed)
	}

	var singles []fragment
	for _, r := range rc.Releases {
		if r.Status == release.StatusUnparseable && r.Changelog == "" {
			continue
		}
		body, err := bs.renderer.Render([]byte(r.Changelog))
		if err != nil {
			return err
		}
		entry := changelogEntry{
			Version:     r.Version,
			Title:       r.DisplayTitle(),
			PublishedAt: publishedDate(r),
			published:   r.PublishedAt,
			Notice:      releaseNotice(r),
			// #nosec G203 -- rendered markdown from the project's own release notes
			Body: template.HTML(body),
		}
		if !placeholder {
			filename := releasePage(r.Version)
			entry.Href = bs.href(filename)
			single, err := bs.theme.render("changelog_single", changelogSingleData{
				IndexHref:   bs.href(changelogPage),
				Title:       entry.Title,
				PublishedAt: entry.PublishedAt,
				Notice:      entry.Notice,
				Body:        entry.Body,
			})
			if err != nil {
				return err
			}
			singles = append(singles, fragment{Filename: filename, Title: entry.Title, Body: single})
		}
		index.Releases = append(index.Releases, entry)
	}

	body, err := bs.theme.render("changelog_index", index)
	if err != nil {
		return err
	}
	bs.addFragment(fragment{Filename: changelogPage, Title: "Changelog", NavLabel: "Changelog", Body: body})
	for _, f := range singles {
		bs.addFragment(f)
	}

	if feed {
		raw, err := renderFeed(bs, index.Releases)
		if err != nil {
			return err
		}
		bs.addFragment(fragment{Filename: changelogFeed, Raw: raw})
	}
	return nil
}

func releasePage(version string) string {
	return path.Join(changelogDir, slugify(version)+".html")
}

func publishedDate(r *release.Release) string {
	if r.PublishedAt == nil {
		return ""
	}
	return r.PublishedAt.Format(dateLayout)
}

func releaseNotice(r *release.Release) string {
	switch r.Status {
	case release.StatusPartial:
		return "This release was built with a newer release format (" + r.SchemaVersion + "); install options are not shown."
	case release.StatusUnparseable:
		return "Install options for this release could not be read."
	default:
		return ""
	}
}
