package site

import (
	"path"
	"strings"
)

// Page is one rendered output file. Filename is relative and slash-separated.
type Page struct {
	Filename string
	Contents []byte
}

// OutputPath maps a page filename onto its location in the output directory.
// "X.html" becomes "X/index.html" so pages load without the extension;
// "index.html" and every other extension keep their literal path.
func OutputPath(filename string) string {
	clean := path.Clean(strings.TrimPrefix(filename, "/"))
	if path.Ext(clean) != ".html" || path.Base(clean) == "index.html" {
		return clean
	}
	return path.Join(strings.TrimSuffix(clean, ".html"), "index.html")
}

// Href returns the URL of a page filename under prefix.
func Href(prefix, filename string) string {
	out := OutputPath(filename)
	if path.Base(out) == "index.html" {
		dir := path.Dir(out)
		if dir == "." {
			return joinURL(prefix, "") + "/"
		}
		return joinURL(prefix, dir) + "/"
	}
	return joinURL(prefix, out)
}

func joinURL(prefix, p string) string {
	joined := path.Join("/", prefix, p)
	if joined == "/" {
		return ""
	}
	return joined
}
