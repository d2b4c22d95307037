// Package version holds build metadata, set at link time with
// -ldflags "-X github.com/banshee-data/radar-clutter/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the release tag; it is stored with every recorded relabel run.
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for -version output.
func String() string {
	return fmt.Sprintf("%s (git %s, built %s)", Version, GitSHA, BuildTime)
}
