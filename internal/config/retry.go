package config

import "git.home.luguber.info/inful/projectsite/internal/foundation/normalization"

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)

// NormalizeRetryBackoff converts user input (case-insensitive) into a typed mode, defaulting to linear.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	return retryBackoffNormalizer.Normalize(raw)
}

var releaseSourceNormalizer = normalization.NewNormalizer(map[string]ReleaseSourceKind{
	"github": ReleaseSourceGitHub,
	"hosted": ReleaseSourceHosted,
}, ReleaseSourceGitHub)
