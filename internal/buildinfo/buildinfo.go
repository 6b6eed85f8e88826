// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent is sent with outgoing HTTP requests.
func UserAgent() string {
	return "t3rnctl/" + Version
}
