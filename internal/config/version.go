package config

// Version is the published version of nx and of every bundled plugin.
// Overridden at build time through SetBuildFlags.
var (
	Version = "16.5.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the release metadata linked into the binary
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
