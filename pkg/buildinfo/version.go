// Package buildinfo holds the version stamped into impose builds.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/impose/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/impose/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/impose/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/impose
//
// The version also scopes cache keys, so layouts cached by one build are
// never served by another.
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information reported by `impose --version` and the
// server's health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// CacheScope is the prefix that keeps cache entries of different builds
// apart. Development builds share the "dev" scope.
func CacheScope() string {
	return "impose/" + Version + ":"
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("impose %s (commit %s, built %s)\n", Version, Commit, Date)
}
