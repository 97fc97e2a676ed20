package git

import (
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

var (
	// ErrNotARepository signals that no git repository encloses the path.
	ErrNotARepository = errors.ConfigError("not a git repository").Warning().Build()

	// ErrNoOrigin signals a repository without an "origin" remote.
	ErrNoOrigin = errors.ConfigError("repository has no origin remote").Warning().Build()
)
