package logfields

import "log/slog"

// Canonical log field names shared by every package, so warnings can be grepped by key.
const (
	KeyBuildID       = "build_id"
	KeyStage         = "stage"
	KeyComponent     = "component"
	KeyDurationMS    = "duration_ms"
	KeyRepo          = "repository"
	KeyTag           = "tag"
	KeySchemaVersion = "schema_version"
	KeyPath          = "path"
	KeyMember        = "member"
	KeySource        = "source"
	KeyURL           = "url"
	KeyPage          = "page"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Component(name string) slog.Attr   { return slog.String(KeyComponent, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr     { return slog.String(KeyRepo, r) }
func Tag(tag string) slog.Attr          { return slog.String(KeyTag, tag) }
func SchemaVersion(v string) slog.Attr  { return slog.String(KeySchemaVersion, v) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Member(slug string) slog.Attr      { return slog.String(KeyMember, slug) }
func Source(kind string) slog.Attr      { return slog.String(KeySource, kind) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Page(filename string) slog.Attr    { return slog.String(KeyPage, filename) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
