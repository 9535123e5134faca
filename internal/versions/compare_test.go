package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewerVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		newVersion string
		oldVersion string
		expected   bool
	}{
		// Valid semver comparisons
		{name: "newer major version", newVersion: "2.0.0", oldVersion: "1.0.0", expected: true},
		{name: "newer minor version", newVersion: "1.2.0", oldVersion: "1.1.0", expected: true},
		{name: "newer patch version", newVersion: "1.0.2", oldVersion: "1.0.1", expected: true},
		{name: "older major version", newVersion: "1.0.0", oldVersion: "2.0.0", expected: false},
		{name: "equal versions", newVersion: "1.0.0", oldVersion: "1.0.0", expected: false},
		{name: "prerelease vs release", newVersion: "1.0.0", oldVersion: "1.0.0-alpha", expected: true},
		{name: "release vs prerelease", newVersion: "1.0.0-alpha", oldVersion: "1.0.0", expected: false},
		// Fallback to string comparison for non-semver
		{name: "non-semver string comparison newer", newVersion: "version-b", oldVersion: "version-a", expected: true},
		{name: "non-semver string comparison older", newVersion: "version-a", oldVersion: "version-b", expected: false},
		{name: "both empty", newVersion: "", oldVersion: "", expected: false},
		// Edge cases with v prefix
		{name: "v prefix newer", newVersion: "v2.0.0", oldVersion: "v1.0.0", expected: true},
		{name: "v prefix older", newVersion: "v1.0.0", oldVersion: "v2.0.0", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := IsNewerVersion(tt.newVersion, tt.oldVersion)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		minimum  string
		expected bool
	}{
		{name: "above minimum", version: "12.5.0", minimum: "12.0.0", expected: true},
		{name: "exactly minimum", version: "12.0.0", minimum: "12.0.0", expected: true},
		{name: "below minimum", version: "11.9.3", minimum: "12.0.0", expected: false},
		{name: "prerelease below release minimum", version: "12.0.0-rc1", minimum: "12.0.0", expected: false},
		{name: "v prefix", version: "v12.1.0", minimum: "12.0.0", expected: true},
		{name: "non-semver fallback equal", version: "build-2024", minimum: "build-2024", expected: true},
		{name: "non-semver fallback below", version: "build-2023", minimum: "build-2024", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := AtLeast(tt.version, tt.minimum)
			assert.Equal(t, tt.expected, result)
		})
	}
}
