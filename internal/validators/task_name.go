// Package validators provides validation functions for rollout server entities.
package validators

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minTaskNameLength = 2
	maxTaskNameLength = 100
)

var (
	// Task name pattern: must start and end with alphanumeric, can contain dots,
	// underscores, and hyphens in the middle
	taskNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
)

// ValidateTaskName validates a rollout task name. Task names become directory
// names in file storage and primary key components in database storage, so the
// character set is restricted accordingly.
// Returns the validated name (trimmed) and an error if validation fails.
//
// Examples of valid names:
//   - workstations-critical
//   - servers.monthly
//   - pilot_ring
//
// Examples of invalid names:
//   - -workstations (starts with hyphen)
//   - ring/1 (contains path separator)
func ValidateTaskName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("task name cannot be empty")
	}

	if len(name) < minTaskNameLength {
		return "", fmt.Errorf("task name must be at least %d characters long", minTaskNameLength)
	}
	if len(name) > maxTaskNameLength {
		return "", fmt.Errorf("task name exceeds maximum length of %d characters", maxTaskNameLength)
	}

	if !taskNamePattern.MatchString(name) {
		return "", fmt.Errorf(
			"task name '%s' is invalid. Task names must start and end with alphanumeric characters, "+
				"and may contain dots, underscores, and hyphens in the middle",
			name,
		)
	}

	return name, nil
}

// IsValidTaskName checks if a task name is valid.
// This is a convenience wrapper around ValidateTaskName for boolean checks.
func IsValidTaskName(name string) bool {
	_, err := ValidateTaskName(name)
	return err == nil
}
