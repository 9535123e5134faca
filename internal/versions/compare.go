package versions

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// It uses semantic versioning for comparison when both strings are valid semver,
// and falls back to lexicographic string comparison otherwise.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)

	if errNew != nil || errOld != nil {
		// Fallback to string comparison if semver parsing fails
		return newVersion > oldVersion
	}

	return newSemver.GreaterThan(oldSemver)
}

// AtLeast reports whether version is greater than or equal to minimum.
// It uses semantic versioning for comparison when both strings are valid semver,
// and falls back to lexicographic string comparison otherwise.
func AtLeast(version, minimum string) bool {
	verSemver, errVer := semver.NewVersion(version)
	minSemver, errMin := semver.NewVersion(minimum)

	if errVer != nil || errMin != nil {
		return version >= minimum
	}

	return !verSemver.LessThan(minSemver)
}
