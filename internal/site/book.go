package site

import (
	"context"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

type chapter struct {
	filename string
	title    string
}

// stageBook renders every markdown file below the book source into the book
// output directory. The output may not live inside the source tree.
func stageBook(ctx context.Context, bs *buildState) error {
	bc := bs.cfg.Components.Book
	src := bs.cfg.Path(bc.Path)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return errors.ConfigError("book source directory not found").
			WithCause(err).WithContext("path", src).Build()
	}
	out := filepath.Join(bs.cfg.DistPath(), bc.BuildDir)
	if within(src, out) || within(src, bs.cfg.DistPath()) {
		return errors.ConfigError("book output directory is inside the book source").
			WithContext("source", src).WithContext("output", out).
			WithHelp("move the dist directory or components.book.path so they do not overlap").Build()
	}

	var chapters []chapter
	var pages []Page
	hasIndex := false
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(p) {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		html, err := bs.renderer.Render(data)
		if err != nil {
			return err
		}
		filename := chapterFilename(filepath.ToSlash(rel))
		title := bs.renderer.Title(data)
		if title == "" {
			title = strings.TrimSuffix(path.Base(filepath.ToSlash(rel)), path.Ext(rel))
		}
		if filename == indexPage {
			hasIndex = true
		} else {
			chapters = append(chapters, chapter{filename: filename, title: title})
		}
		// #nosec G203 -- rendered markdown from the project's own book
		body, err := bs.theme.render("page", template.HTML(html))
		if err != nil {
			return err
		}
		contents, err := bs.theme.page(bs.layout(title, body, false))
		if err != nil {
			return err
		}
		pages = append(pages, Page{Filename: path.Join(bc.BuildDir, filename), Contents: contents})
		return nil
	})
	if err != nil {
		return errors.ComponentError("failed to render book").WithCause(err).WithContext("path", src).Build()
	}

	if !hasIndex {
		body, err := bs.theme.render("book_index", bookLinks(bs, chapters))
		if err != nil {
			return err
		}
		contents, err := bs.theme.page(bs.layout("Docs", body, false))
		if err != nil {
			return err
		}
		pages = append(pages, Page{Filename: path.Join(bc.BuildDir, indexPage), Contents: contents})
	}
	return Writer{Dist: bs.cfg.DistPath()}.Write(pages)
}

// chapterFilename maps README.md and index.md to the directory index.
func chapterFilename(rel string) string {
	base := strings.TrimSuffix(rel, path.Ext(rel))
	switch strings.ToLower(path.Base(base)) {
	case "readme", "index":
		return path.Join(path.Dir(base), indexPage)
	}
	return base + ".html"
}

type bookLink struct {
	Href  string
	Title string
}

func bookLinks(bs *buildState, chapters []chapter) []bookLink {
	links := make([]bookLink, 0, len(chapters))
	for _, c := range chapters {
		links = append(links, bookLink{Href: bs.href(path.Join(bs.cfg.Components.Book.BuildDir, c.filename)), Title: c.title})
	}
	return links
}
