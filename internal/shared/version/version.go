// Package version reports the build version of the portal binary.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Current is overridden at build time:
//
//	go build -ldflags "-X github.com/fixmysite/portal/internal/shared/version.Current=1.4.0"
var Current = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns Current in canonical semver form, or "dev" for builds
// without a release version.
func String() string {
	v := Normalize(Current)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the binary was built with a release version.
func IsRelease() bool {
	return String() != "dev" && semver.Prerelease(Normalize(Current)) == ""
}
