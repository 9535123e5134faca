package validators

import (
	"strings"
	"testing"
)

func TestValidateServerName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		serverName  string
		expectValid bool
		expectError string
	}{
		// Valid cases
		{
			name:        "simple valid name",
			serverName:  "main-office",
			expectValid: true,
		},
		{
			name:        "valid with dots",
			serverName:  "datacenter.east",
			expectValid: true,
		},
		{
			name:        "valid with underscores",
			serverName:  "branch_office",
			expectValid: true,
		},
		{
			name:        "single character",
			serverName:  "a",
			expectValid: true,
		},
		{
			name:        "valid with numbers",
			serverName:  "site-42",
			expectValid: true,
		},

		// Invalid cases - empty and length
		{
			name:        "empty string",
			serverName:  "",
			expectValid: false,
			expectError: "cannot be empty",
		},
		{
			name:        "whitespace only",
			serverName:  "   ",
			expectValid: false,
			expectError: "cannot be empty",
		},
		{
			name:        "exceeds max length",
			serverName:  strings.Repeat("a", 101),
			expectValid: false,
			expectError: "exceeds maximum length of 100 characters",
		},

		// Invalid cases - character restrictions
		{
			name:        "contains space",
			serverName:  "branch office",
			expectValid: false,
			expectError: "is invalid",
		},
		{
			name:        "starts with hyphen",
			serverName:  "-east",
			expectValid: false,
			expectError: "is invalid",
		},
		{
			name:        "ends with dot",
			serverName:  "east.",
			expectValid: false,
			expectError: "is invalid",
		},
		{
			name:        "contains slash",
			serverName:  "east/1",
			expectValid: false,
			expectError: "is invalid",
		},

		// Edge cases - whitespace handling
		{
			name:        "leading and trailing whitespace",
			serverName:  "  main-office  ",
			expectValid: true, // Should be trimmed
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ValidateServerName(tt.serverName)

			if tt.expectValid {
				if err != nil {
					t.Errorf("Expected valid, got error: %v", err)
				}
				if result != strings.TrimSpace(tt.serverName) {
					t.Errorf("Expected result to be trimmed: got %q, want %q", result, strings.TrimSpace(tt.serverName))
				}
			} else {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				if tt.expectError != "" && !strings.Contains(err.Error(), tt.expectError) {
					t.Errorf("Expected error containing %q, got %q", tt.expectError, err.Error())
				}
			}
		})
	}
}

func TestIsValidServerName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		serverName  string
		expectValid bool
	}{
		{
			name:        "valid name",
			serverName:  "main-office",
			expectValid: true,
		},
		{
			name:        "invalid name - empty",
			serverName:  "",
			expectValid: false,
		},
		{
			name:        "invalid name - whitespace inside",
			serverName:  "branch office",
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsValidServerName(tt.serverName)
			if result != tt.expectValid {
				t.Errorf("IsValidServerName(%q) = %v, want %v", tt.serverName, result, tt.expectValid)
			}
		})
	}
}
