package forge

import (
	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
)

var (
	// ErrSourceUnreachable signals that release data could not be obtained from the
	// configured source: unknown repository, missing authorization, timeout or transport failure.
	ErrSourceUnreachable = errors.SourceUnreachableError("release source unreachable").Build()

	// ErrUnknownRepoStyle signals a repository URL that is not a recognizable GitHub reference.
	ErrUnknownRepoStyle = errors.ConfigError("unknown repository style").
				WithHelp("use https://github.com/<owner>/<repo>, git@github.com:<owner>/<repo>.git or github.com/<owner>/<repo>").
				Build()

	// ErrUnsupportedSource signals a release source kind without a client.
	ErrUnsupportedSource = errors.ConfigError("unsupported release source").Build()
)

// retryableKey marks classified errors worth another attempt.
const retryableKey = "retryable"

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	v, ok := ce.Context().Get(retryableKey)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
