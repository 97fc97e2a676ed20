package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	ferrors "git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

// WorkspaceFileName is the descriptor that turns a directory into a workspace.
const WorkspaceFileName = "projectsite-workspace.json"

// Workspace is the decoded workspace descriptor. Comments are allowed in the file.
type Workspace struct {
	Settings WorkspaceSettings `json:"workspace"`
	Members  []MemberEntry     `json:"members"`

	// Root is the directory holding the descriptor; member paths resolve against it.
	Root string `json:"-"`
}

// WorkspaceSettings configures the aggregate index.
type WorkspaceSettings struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	DistDir       string   `json:"dist_dir,omitempty"`
	PathPrefix    string   `json:"path_prefix,omitempty"`
	AdditionalCSS []string `json:"additional_css,omitempty"`
}

// MemberEntry is one project listed in the descriptor.
type MemberEntry struct {
	Slug string `json:"slug"`
	Path string `json:"path"`
}

// FindWorkspace loads the descriptor in root. It returns nil, nil when root is not a workspace.
func FindWorkspace(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.ConfigError("failed to resolve workspace root").WithCause(err).Build()
	}
	descriptor := filepath.Join(abs, WorkspaceFileName)
	data, err := os.ReadFile(descriptor)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.ConfigError("failed to read workspace descriptor").
			WithCause(err).WithContext("path", descriptor).Build()
	}

	ws := &Workspace{Root: abs}
	if err := json.Unmarshal(jsonc.ToJSON(data), ws); err != nil {
		return nil, ferrors.ConfigError("failed to parse workspace descriptor").
			WithCause(err).WithContext("path", descriptor).Build()
	}
	if ws.Settings.Name == "" {
		ws.Settings.Name = filepath.Base(abs)
	}
	if ws.Settings.DistDir == "" {
		ws.Settings.DistDir = "public"
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}

// Validate checks that slugs are unique single path segments and paths are set.
func (w *Workspace) Validate() error {
	if len(w.Members) == 0 {
		return ferrors.ConfigError("workspace has no members").Build()
	}
	seen := make(map[string]struct{}, len(w.Members))
	for _, m := range w.Members {
		if m.Slug == "" || m.Slug == "." || m.Slug == ".." || strings.ContainsAny(m.Slug, `/\`) {
			return ferrors.ConfigError("invalid workspace member slug").
				WithContext("slug", m.Slug).
				WithHelp("slugs must be a single path segment").
				Build()
		}
		if _, dup := seen[m.Slug]; dup {
			return ferrors.ConfigError("duplicate workspace member slug").WithContext("slug", m.Slug).Build()
		}
		seen[m.Slug] = struct{}{}
		if m.Path == "" {
			return ferrors.ConfigError("workspace member has no path").WithContext("slug", m.Slug).Build()
		}
	}
	return nil
}

// DistPath is the absolute output directory of the workspace index.
func (w *Workspace) DistPath() string {
	if filepath.IsAbs(w.Settings.DistDir) {
		return w.Settings.DistDir
	}
	return filepath.Join(w.Root, w.Settings.DistDir)
}

// MemberPath is the absolute project directory of a member.
func (w *Workspace) MemberPath(m MemberEntry) string {
	if filepath.IsAbs(m.Path) {
		return m.Path
	}
	return filepath.Join(w.Root, m.Path)
}

// MemberConfig loads a member's own configuration and places its output under
// the workspace dist directory.
func (w *Workspace) MemberConfig(m MemberEntry) (*Config, error) {
	dir := w.MemberPath(m)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, ferrors.ConfigError("workspace member path does not exist").
			WithCause(err).
			WithContext("slug", m.Slug).
			WithContext("path", dir).
			WithHelp("member paths are resolved relative to the workspace root").
			Build()
	}
	cfg, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	cfg.Build.DistDir = filepath.Join(w.DistPath(), m.Slug)
	cfg.Build.PathPrefix = path.Join("/", w.Settings.PathPrefix, m.Slug)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
