package validators

import (
	"fmt"
	"regexp"
	"strings"
)

const maxServerNameLength = 100

var (
	// Server name pattern: must start and end with alphanumeric, can contain
	// dots, underscores, and hyphens in the middle
	serverNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
)

// ValidateServerName validates a rollout server instance name. The name
// appears in logs and telemetry attributes, so it is kept to a single
// plain token.
// Returns the validated name (trimmed) and an error if validation fails.
//
// Examples of valid names:
//   - main-office
//   - datacenter.east
//
// Examples of invalid names:
//   - branch office (contains whitespace)
//   - -east (starts with hyphen)
func ValidateServerName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("server name cannot be empty")
	}

	if len(name) > maxServerNameLength {
		return "", fmt.Errorf("server name exceeds maximum length of %d characters", maxServerNameLength)
	}

	if !serverNamePattern.MatchString(name) {
		return "", fmt.Errorf(
			"server name '%s' is invalid. Server names must start and end with alphanumeric characters, "+
				"and may contain dots, underscores, and hyphens in the middle",
			name,
		)
	}

	return name, nil
}

// IsValidServerName checks if a server instance name is valid.
// This is a convenience wrapper around ValidateServerName for boolean checks.
func IsValidServerName(name string) bool {
	_, err := ValidateServerName(name)
	return err == nil
}
