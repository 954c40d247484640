// Package version holds the release version of the reverser binary.
package version

// Current is the semver release, without a leading "v".
const Current = "0.1.0"
