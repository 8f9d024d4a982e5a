// Package build holds build-time information injected via ldflags.
package build

// Version, Commit and Date describe the otto binary. They are set at build
// time via -ldflags "-X go.trai.ch/otto/internal/build.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
