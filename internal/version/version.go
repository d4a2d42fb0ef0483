// Package version holds build metadata injected via ldflags.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the version line shown by `writ version`.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
