package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSupportedVersion is the manifest schema version understood by this parser.
const DefaultSupportedVersion = "1.0.0"

// Status classifies how completely a manifest was understood.
type Status string

const (
	StatusFull        Status = "full"
	StatusPartial     Status = "partial"
	StatusUnparseable Status = "unparseable"
)

// Artifact is one downloadable file described by a manifest.
type Artifact struct {
	Target string `json:"target"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
}

// Document is the JSON shape of a release manifest. Unknown fields are ignored.
type Document struct {
	SchemaVersion         string     `json:"schema_version"`
	DistVersion           string     `json:"dist_version,omitempty"`
	AnnouncementTag       string     `json:"announcement_tag,omitempty"`
	Tag                   string     `json:"tag,omitempty"`
	AnnouncementTitle     string     `json:"announcement_title,omitempty"`
	AnnouncementChangelog string     `json:"announcement_changelog,omitempty"`
	Releases              []any      `json:"releases,omitempty"`
	Artifacts             []Artifact `json:"artifacts,omitempty"`
}

func (d *Document) version() string {
	if d.SchemaVersion != "" {
		return d.SchemaVersion
	}
	return d.DistVersion
}

func (d *Document) identity(fetchTag string) string {
	switch {
	case d.AnnouncementTag != "":
		return d.AnnouncementTag
	case d.Tag != "":
		return d.Tag
	case len(d.Releases) > 0:
		return fetchTag
	default:
		return ""
	}
}

// Outcome is the result of parsing one release's manifest.
type Outcome struct {
	Status        Status
	Reason        string
	SchemaVersion string
	Tag           string
	Title         string
	Changelog     string
	Artifacts     []Artifact
}

// Parser decodes manifests against a supported schema version.
type Parser struct {
	SupportedVersion string
}

// NewParser returns a parser for DefaultSupportedVersion.
func NewParser() *Parser {
	return &Parser{SupportedVersion: DefaultSupportedVersion}
}

// Parse decodes payload for the release fetched under tag. It never returns an
// error: decoding problems are reported through an unparseable Outcome.
func (p *Parser) Parse(tag string, payload []byte) Outcome {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return unparseable(tag, "", "manifest is empty")
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return unparseable(tag, "", fmt.Sprintf("manifest is not valid JSON: %v", err))
	}

	version := doc.version()
	if version == "" {
		return unparseable(tag, "", "manifest does not declare a schema version")
	}

	if p.compatible(version) {
		out := Outcome{
			Status:        StatusFull,
			SchemaVersion: version,
			Tag:           tag,
			Title:         doc.AnnouncementTitle,
			Changelog:     doc.AnnouncementChangelog,
			Artifacts:     doc.Artifacts,
		}
		if id := doc.identity(tag); id != "" {
			out.Tag = id
		}
		return out
	}

	id := doc.identity(tag)
	if id == "" {
		return unparseable(tag, version,
			fmt.Sprintf("schema version %s, parser version %s, and no release identity", version, p.supported()))
	}
	return Outcome{
		Status:        StatusPartial,
		Reason:        fmt.Sprintf("schema version %s, parser version %s", version, p.supported()),
		SchemaVersion: version,
		Tag:           id,
		Title:         doc.AnnouncementTitle,
	}
}

func (p *Parser) supported() string {
	if p.SupportedVersion == "" {
		return DefaultSupportedVersion
	}
	return p.SupportedVersion
}

// compatible reports whether version shares major and minor with the supported version.
func (p *Parser) compatible(version string) bool {
	want := p.supported()
	if strings.TrimPrefix(version, "v") == strings.TrimPrefix(want, "v") {
		return true
	}
	gotMajor, gotMinor, ok := majorMinor(version)
	if !ok {
		return false
	}
	wantMajor, wantMinor, ok := majorMinor(want)
	return ok && gotMajor == wantMajor && gotMinor == wantMinor
}

func majorMinor(version string) (string, string, bool) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	for _, part := range parts[:2] {
		for _, r := range part {
			if r < '0' || r > '9' {
				return "", "", false
			}
		}
	}
	return parts[0], parts[1], true
}

func unparseable(tag, version, reason string) Outcome {
	return Outcome{Status: StatusUnparseable, Reason: reason, SchemaVersion: version, Tag: tag}
}
