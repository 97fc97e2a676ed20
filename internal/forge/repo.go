package forge

import (
	"strings"
)

// ParseRepo extracts owner and name from a GitHub repository reference. Supported
// forms are https://github.com/o/r(.git), git@github.com:o/r(.git) and github.com/o/r.
func ParseRepo(raw string) (Repo, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")

	var rest string
	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		rest = strings.TrimPrefix(s, "git@github.com:")
	case strings.HasPrefix(s, "ssh://git@github.com/"):
		rest = strings.TrimPrefix(s, "ssh://git@github.com/")
	case strings.HasPrefix(s, "https://github.com/"):
		rest = strings.TrimPrefix(s, "https://github.com/")
	case strings.HasPrefix(s, "http://github.com/"):
		rest = strings.TrimPrefix(s, "http://github.com/")
	case strings.HasPrefix(s, "https://www.github.com/"):
		rest = strings.TrimPrefix(s, "https://www.github.com/")
	case strings.HasPrefix(s, "github.com/"):
		rest = strings.TrimPrefix(s, "github.com/")
	default:
		return Repo{}, ErrUnknownRepoStyle.WithContext("repository", raw)
	}

	rest = strings.TrimSuffix(rest, ".git")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, ErrUnknownRepoStyle.WithContext("repository", raw)
	}
	// Allow links into the repository such as .../tree/main.
	return Repo{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
}

// WebURL returns the browsable GitHub URL of the repository.
func (r Repo) WebURL() string {
	return "https://github.com/" + r.String()
}
