// Package version holds the build information stamped into the binary.
package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/shade/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/shade/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/shade/internal/version.Date={{.Date}}
)
