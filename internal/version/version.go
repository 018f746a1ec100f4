// Package version holds build-time metadata injected via ldflags.
package version

// Set at build time using -ldflags:
//
//	-X 'github.com/openquota/openquota/internal/version.Version=...'
//	-X 'github.com/openquota/openquota/internal/version.CommitHash=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
)

func String() string {
	return Version + " (" + CommitHash + ")"
}
