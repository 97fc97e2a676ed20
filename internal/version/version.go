package version

import "fmt"

// Version is the projectsite release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/projectsite/internal/version.Version=v0.4.0".
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("projectsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
