// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X github.com/javanstorm/vmsetup/internal/version.Version=1.0.0 \
//	                   -X github.com/javanstorm/vmsetup/internal/version.Commit=$(git rev-parse HEAD) \
//	                   -X github.com/javanstorm/vmsetup/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit SHA at build time.
	Commit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

// UserAgent identifies vmsetup in log output, e.g. "vmsetup/1.0.0 (abc1234)".
func UserAgent() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("vmsetup/%s (%s)", Version, commit)
}
