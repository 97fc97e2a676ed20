package site

import (
	"context"
	stderrors "errors"
	"html/template"
	"io/fs"
	"os"
	"strings"

	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

const indexPage = "index.html"

type indexData struct {
	Install       *installData
	ArtifactsHref string
	Readme        template.HTML
	// Description stands in for the readme when it cannot be rendered.
	Description string
}

// stageIndex renders the readme as the home page, then wraps every component
// fragment in the site layout to produce the final page set.
func stageIndex(_ context.Context, bs *buildState) error {
	data := indexData{Install: bs.install}
	readme, err := readmeHTML(bs)
	if err != nil {
		bs.warn(StageIndex, "Readme unavailable, using project description", err)
		data.Description = bs.cfg.Project.Description
	} else {
		data.Readme = readme
	}
	if bs.install != nil {
		data.ArtifactsHref = bs.href(artifactsPage)
	}
	body, err := bs.theme.render("index", data)
	if err != nil {
		return errors.StructuralIOError("failed to render index page").WithCause(err).Build()
	}
	for _, f := range bs.fragments {
		if OutputPath(f.Filename) == indexPage {
			return errors.InternalError("component produced a second index page").
				WithContext("page", f.Filename).Build()
		}
	}
	bs.addFragment(fragment{Filename: indexPage, Body: body, Install: bs.install != nil})

	bs.pages = bs.pages[:0]
	for _, f := range bs.fragments {
		if f.Raw != nil {
			bs.pages = append(bs.pages, Page{Filename: f.Filename, Contents: f.Raw})
			continue
		}
		contents, err := bs.theme.page(bs.layout(f.Title, f.Body, f.Install))
		if err != nil {
			return errors.StructuralIOError("failed to render page layout").
				WithCause(err).WithContext("page", f.Filename).Build()
		}
		bs.pages = append(bs.pages, Page{Filename: f.Filename, Contents: contents})
	}
	return nil
}

func readmeHTML(bs *buildState) (template.HTML, error) {
	path := bs.cfg.Path(bs.cfg.Project.ReadmePath)
	src, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return "", errors.ConfigError("readme not found").Warning().WithContext("path", path).Build()
	}
	if err != nil {
		return "", errors.ComponentError("failed to read readme").WithCause(err).WithContext("path", path).Build()
	}
	html, err := bs.renderer.Render(src)
	if err != nil {
		return "", err
	}
	bs.logger.Debug("Rendered readme", logfields.Path(path))
	// #nosec G203 -- rendered markdown from the project's own readme
	return template.HTML(html), nil
}

// layout assembles the shared page chrome. The nav lists every page a component
// produced, in pipeline order.
func (bs *buildState) layout(title string, body template.HTML, install bool) layoutData {
	cfg := bs.cfg
	data := layoutData{
		Theme:       cfg.Styles.Theme,
		PageTitle:   title,
		SiteTitle:   cfg.Styles.Title,
		Description: cfg.Project.Description,
		Favicon:     bs.faviconHref(),
		Stylesheets: bs.stylesheets(),
		Home:        bs.href(indexPage),
		Nav:         bs.nav(),
		Content:     body,
		Repository:  bs.repositoryURL(),
		License:     cfg.Project.License,
	}
	for _, f := range bs.fragments {
		if f.Filename == changelogFeed {
			data.FeedURL = bs.href(changelogFeed)
		}
	}
	if install {
		data.Scripts = []string{bs.href(osScriptFile)}
	}
	return data
}

func (bs *buildState) nav() []navItem {
	items := []navItem{{Href: bs.href(indexPage), Label: "Home"}}
	for _, f := range bs.fragments {
		if f.NavLabel != "" {
			items = append(items, navItem{Href: bs.href(f.Filename), Label: f.NavLabel})
		}
	}
	if bs.cfg.Components.Book != nil {
		items = append(items, navItem{Href: bs.href(bs.cfg.Components.Book.BuildDir + "/" + indexPage), Label: "Docs"})
	}
	return items
}

func (bs *buildState) repositoryURL() string {
	if bs.project.Repository == "" {
		return bs.cfg.Project.Homepage
	}
	if repo, err := forge.ParseRepo(bs.project.Repository); err == nil {
		return repo.WebURL()
	}
	if strings.HasPrefix(bs.project.Repository, "http") {
		return bs.project.Repository
	}
	return bs.cfg.Project.Homepage
}
