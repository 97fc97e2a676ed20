package site

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

// stageAdditionalPages renders each configured markdown page under a slug of its title.
// Entries that are not markdown are skipped with a warning.
func stageAdditionalPages(_ context.Context, bs *buildState) error {
	titles := make([]string, 0, len(bs.cfg.Build.AdditionalPages))
	for title := range bs.cfg.Build.AdditionalPages {
		titles = append(titles, title)
	}
	slices.Sort(titles)

	for _, title := range titles {
		rel := bs.cfg.Build.AdditionalPages[title]
		if !isMarkdown(rel) {
			bs.warn(StageAdditionalPages, "Skipping additional page that is not markdown",
				errors.ConfigError("additional page is not a markdown file").Warning().WithContext("path", rel).Build(),
				logfields.Path(rel))
			continue
		}
		slug := slugify(title)
		if slug == "" || slug == "index" || slug == "changelog" || slug == "artifacts" || slug == "funding" {
			bs.warn(StageAdditionalPages, "Skipping additional page whose title collides with a generated page",
				errors.ConfigError("additional page title is reserved").Warning().WithContext("title", title).Build(),
				logfields.Page(title))
			continue
		}
		path := bs.cfg.Path(rel)
		src, err := os.ReadFile(path)
		if err != nil {
			return errors.ComponentError("failed to read additional page").
				WithCause(err).WithContext("path", path).Build()
		}
		html, err := bs.renderer.Render(src)
		if err != nil {
			return err
		}
		// #nosec G203 -- rendered markdown from the project's own pages
		body, err := bs.theme.render("page", template.HTML(html))
		if err != nil {
			return err
		}
		bs.addFragment(fragment{Filename: slug + ".html", Title: title, NavLabel: title, Body: body})
	}
	if len(titles) == 0 {
		return errStageSkipped
	}
	return nil
}

func isMarkdown(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// slugify lowercases s and replaces every run of characters outside [a-z0-9._] with a hyphen.
func slugify(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
