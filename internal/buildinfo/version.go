// Package buildinfo contains build-time information embedded via ldflags
package buildinfo

// Version is the application version, set at build time via ldflags
// Example: go build -ldflags "-X github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/buildinfo.Version=v1.0.0"
var Version = "dev"

// Commit is the short git commit hash, set at build time via ldflags
var Commit = "none"

// Date is the build timestamp, set at build time via ldflags
var Date = "unknown"

// GetVersion returns the current version, with "dev" as default for development builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetCommit returns the build commit hash, with "none" as default
func GetCommit() string {
	if Commit == "" {
		return "none"
	}
	return Commit
}

// GetDate returns the build timestamp, with "unknown" as default
func GetDate() string {
	if Date == "" {
		return "unknown"
	}
	return Date
}
