// Package version exposes the build-stamped CLI version.
package version

// version is replaced at build time via -ldflags.
var version = "v0.0.0"

// Value returns the version string for this build.
func Value() string {
	return version
}
