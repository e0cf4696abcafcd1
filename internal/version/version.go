// Package version carries build information set with -ldflags, e.g.
//
//	go build -ldflags "-X xray-overlay/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	// Version is the semantic version.
	Version = "0.3.0"

	// BuildTime is the UTC time when the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)

// String returns a one-line build description.
func String() string {
	if GitCommit == "unknown" {
		return "v" + Version
	}
	return fmt.Sprintf("v%s (%s, built %s)", Version, GitCommit, BuildTime)
}
