// Package version exposes the build version injected via ldflags.
package version

// version is set at build time:
//
//	-X github.com/codereviewbot/reviewbot/internal/version.version=v1.2.3
var version = "dev"

// Value returns the build version string.
func Value() string {
	return version
}
