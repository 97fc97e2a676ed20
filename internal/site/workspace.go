package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/projectsite/internal/config"
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
	"git.home.luguber.info/inful/projectsite/internal/markdown"
)

const summaryRunes = 200

// WorkspaceResult collects the member sites of a workspace build.
type WorkspaceResult struct {
	Sites []*Site
	Index *Page
}

type workspaceMemberData struct {
	Href    string
	Name    string
	Version string
	Summary string
}

type workspaceIndexData struct {
	Description string
	Members     []workspaceMemberData
}

// BuildWorkspace builds every member in order, each into its own subdirectory,
// then writes the workspace index. The first member failure stops the loop and
// is returned; sites built before it are kept in the result.
func (b *Builder) BuildWorkspace(ctx context.Context, ws *config.Workspace, opts Options) (*WorkspaceResult, error) {
	log := b.logger().With(slog.String("workspace", ws.Settings.Name))
	if within(ws.DistPath(), ws.Root) {
		return nil, errors.StructuralIOError("workspace output directory contains the workspace").
			WithContext("path", ws.DistPath()).Build()
	}
	if err := prepareOutput(ws.DistPath()); err != nil {
		return nil, err
	}

	result := &WorkspaceResult{}
	for _, m := range ws.Members {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		cfg, err := ws.MemberConfig(m)
		if err != nil {
			return result, err
		}
		member := &WorkspaceMember{Slug: m.Slug, Path: ws.MemberPath(m), Config: cfg}
		log.Info("Building workspace member", logfields.Member(m.Slug), logfields.Path(member.Path))

		site, err := b.Build(ctx, cfg, member, opts)
		if site != nil {
			result.Sites = append(result.Sites, site)
		}
		if err != nil {
			return result, errors.WrapError(err, errors.GetKind(err), "workspace member build failed").
				WithContext("member", m.Slug).Build()
		}
	}
	if opts.JSONOnly {
		return result, nil
	}

	index, err := b.writeWorkspaceIndex(ws, result.Sites)
	if err != nil {
		return result, err
	}
	result.Index = index
	log.Info("Workspace built", slog.Int("members", len(result.Sites)))
	return result, nil
}

func (b *Builder) writeWorkspaceIndex(ws *config.Workspace, sites []*Site) (*Page, error) {
	th, err := loadTheme()
	if err != nil {
		return nil, err
	}
	renderer := markdown.NewRenderer()
	prefix := ws.Settings.PathPrefix

	data := workspaceIndexData{Description: ws.Settings.Description}
	for _, s := range sites {
		data.Members = append(data.Members, memberEntry(s, renderer))
	}
	body, err := th.render("workspace_index", data)
	if err != nil {
		return nil, errors.StructuralIOError("failed to render workspace index").WithCause(err).Build()
	}

	w := Writer{Dist: ws.DistPath()}
	stylesheets := []string{Href(prefix, stylesheetFile)}
	for _, css := range ws.Settings.AdditionalCSS {
		if isRemote(css) {
			stylesheets = append(stylesheets, css)
			continue
		}
		src := css
		if !filepath.IsAbs(src) {
			src = filepath.Join(ws.Root, css)
		}
		if err := copyFile(src, filepath.Join(w.Dist, cssOutDir, filepath.Base(css))); err != nil {
			b.logger().Warn("Workspace stylesheet not copied", logfields.Path(src), logfields.Error(err))
			continue
		}
		stylesheets = append(stylesheets, Href(prefix, cssOutDir+"/"+filepath.Base(css)))
	}

	contents, err := th.page(layoutData{
		Theme:       "light",
		SiteTitle:   ws.Settings.Name,
		Description: ws.Settings.Description,
		Favicon:     Href(prefix, faviconFile),
		Stylesheets: stylesheets,
		Home:        Href(prefix, indexPage),
		Content:     body,
	})
	if err != nil {
		return nil, errors.StructuralIOError("failed to render workspace layout").WithCause(err).Build()
	}

	page := Page{Filename: indexPage, Contents: contents}
	if err := w.Write([]Page{page}); err != nil {
		return nil, err
	}
	for _, name := range []string{stylesheetFile, faviconFile} {
		asset, err := bundledAsset(name)
		if err != nil {
			return nil, errors.InternalError("bundled asset missing").WithCause(err).WithContext("asset", name).Build()
		}
		if err := w.WriteFile(name, asset); err != nil {
			return nil, err
		}
	}
	return &page, nil
}

// memberEntry summarizes a member for the workspace index. The version is shown
// only for a published release.
func memberEntry(s *Site, renderer *markdown.Renderer) workspaceMemberData {
	cfg := s.Member.Config
	entry := workspaceMemberData{Href: s.Member.Slug + "/", Name: cfg.Project.Name, Summary: cfg.Project.Description}
	if latest := s.Releases.Latest(); latest != nil && !latest.Source.IsCurrentState() {
		entry.Version = latest.Version
	}
	if entry.Summary == "" {
		if src, err := os.ReadFile(cfg.Path(cfg.Project.ReadmePath)); err == nil {
			if html, err := renderer.Render(src); err == nil {
				entry.Summary = markdown.Summary(html, summaryRunes)
			}
		}
	}
	return entry
}
