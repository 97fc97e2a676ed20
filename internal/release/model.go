package release

import (
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/projectsite/internal/forge"
	"git.home.luguber.info/inful/projectsite/internal/manifest"
)

// Source records where a release came from.
type Source string

const (
	SourceGitHub             Source = "github"
	SourceHosted             Source = "hosted"
	SourceCurrentWorkingTree Source = "current_working_tree"
)

// SourceFor maps a forge client kind onto a release source.
func SourceFor(kind forge.Kind) Source {
	if kind == forge.KindHosted {
		return SourceHosted
	}
	return SourceGitHub
}

// IsCurrentState reports whether s is the synthetic placeholder source.
func (s Source) IsCurrentState() bool { return s == SourceCurrentWorkingTree }

// Status is the manifest outcome of a release.
type Status = manifest.Status

const (
	StatusFull        = manifest.StatusFull
	StatusPartial     = manifest.StatusPartial
	StatusUnparseable = manifest.StatusUnparseable
)

// Artifact kinds with special treatment. Other kinds are preserved verbatim.
const (
	KindInstaller = "installer"
	KindArchive   = "archive"
	KindScript    = "script"
	KindChecksum  = "checksum"
)

// Artifact is one downloadable file of a release.
type Artifact struct {
	Target      string `json:"target,omitempty"`
	Name        string `json:"name"`
	DownloadURL string `json:"download_url,omitempty"`
	Kind        string `json:"kind"`
	// Viewable marks scripts of the latest release whose text is shown inline.
	Viewable bool   `json:"viewable,omitempty"`
	Content  string `json:"-"`
}

// IsScript reports whether the artifact is an install script that can be shown inline.
func (a Artifact) IsScript() bool {
	if a.Kind == KindScript {
		return true
	}
	switch path.Ext(strings.ToLower(a.Name)) {
	case ".sh", ".ps1":
		return a.Kind == KindInstaller || a.Kind == ""
	}
	return false
}

// Release is one entry of a project's release history.
type Release struct {
	Version       string
	Title         string
	PublishedAt   *time.Time
	Source        Source
	SchemaVersion string
	Artifacts     []Artifact
	Changelog     string
	Status        Status
	StatusReason  string
}

// DisplayTitle returns the title, falling back to the version.
func (r *Release) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Version
}

// ProjectInfo is what the aggregator needs to know about the project being built.
type ProjectInfo struct {
	Name       string
	Version    string
	Repository string
	// Changelog is the text of the local changelog file, when one exists.
	Changelog string
	// Revision is the short commit hash of the working tree, when known.
	Revision string
}
