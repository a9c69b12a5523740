// Package version reports the release the binary was built from.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is overridden at build time:
//
//	go build -ldflags "-X urbanincidents/internal/shared/version.Version=1.4.0" ./cmd/urbanincidents
var Version = "dev"

// Normalize ensures the version string carries the "v" prefix semver expects.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// String returns Version in canonical semver form, or "dev" when the binary
// was not built from a release.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}
