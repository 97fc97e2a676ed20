package site

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Bundled asset names, relative to the output directory.
const (
	stylesheetFile = "style.css"
	faviconFile    = "favicon.svg"
	osScriptFile   = "os.js"
)

type navItem struct {
	Href  string
	Label string
}

type layoutData struct {
	Theme       string
	PageTitle   string
	SiteTitle   string
	Description string
	Favicon     string
	Stylesheets []string
	FeedURL     string
	Home        string
	Nav         []navItem
	Content     template.HTML
	Repository  string
	License     string
	Scripts     []string
}

type theme struct {
	tmpl *template.Template
}

func loadTheme() (*theme, error) {
	tmpl, err := template.New("site").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.InternalError("failed to parse page templates").WithCause(err).Build()
	}
	return &theme{tmpl: tmpl}, nil
}

// render executes a named template into an HTML fragment.
func (t *theme) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.ComponentError("failed to render template").
			WithCause(err).WithContext("template", name).Build()
	}
	// #nosec G203 -- output of html/template is already escaped
	return template.HTML(buf.String()), nil
}

// page wraps body in the site layout.
func (t *theme) page(data layoutData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, errors.ComponentError("failed to render layout").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}

// bundledAsset returns the content of an embedded asset.
func bundledAsset(name string) ([]byte, error) {
	return fs.ReadFile(assetFS, "assets/"+name)
}
