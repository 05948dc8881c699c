// Package version reports the build version and compares it with the server's.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Current is set at build time with -ldflags "-X .../version.Current=v1.2.3".
var Current = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// HasNewerVersion reports whether latestVersion is a newer release than currentVersion.
// Development builds never prompt for an update.
func HasNewerVersion(currentVersion, latestVersion string) bool {
	if latestVersion == "" || currentVersion == "" || currentVersion == "dev" {
		return false
	}

	current := Normalize(currentVersion)
	latest := Normalize(latestVersion)
	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return false
	}

	return semver.Compare(current, latest) < 0
}

// IsCompatible reports whether a client and server share a major version.
// Unparseable versions are assumed compatible.
func IsCompatible(clientVersion, serverVersion string) bool {
	client := Normalize(clientVersion)
	server := Normalize(serverVersion)
	if !semver.IsValid(client) || !semver.IsValid(server) {
		return true
	}
	return semver.Major(client) == semver.Major(server)
}
