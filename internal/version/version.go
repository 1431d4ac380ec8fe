// Package version provides build version information.
package version

import "runtime/debug"

var (
	// injected at build time via -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersion returns the release version. Builds installed with `go install`
// fall back to the module version recorded in the binary.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetFullVersion returns the version with commit and build date.
func GetFullVersion() string {
	return GetVersion() + " (commit: " + commit + ", built: " + date + ")"
}
