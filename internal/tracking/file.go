package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TrackingFileName is the name of the per-task tracking file
	TrackingFileName = "tracking.json"
)

// fileStore implements Store using local filesystem storage
type fileStore struct {
	basePath string
}

// NewFileStore creates a new file-based tracking store.
// basePath is the base directory under which per-task tracking files are stored.
func NewFileStore(basePath string) Store {
	return &fileStore{
		basePath: basePath,
	}
}

// Save writes the tracking set to a JSON file in a task-specific directory
func (f *fileStore) Save(_ context.Context, taskName string, set *Set) error {
	// Create task-specific directory if it doesn't exist
	taskDir := filepath.Join(f.basePath, taskName)
	if err := os.MkdirAll(taskDir, 0750); err != nil {
		return fmt.Errorf("failed to create tracking directory for task '%s': %w", taskName, err)
	}

	filePath := filepath.Join(taskDir, TrackingFileName)

	// Marshal tracking data to JSON with pretty printing for readability
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracking data for task '%s': %w", taskName, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary tracking file for task '%s': %w", taskName, err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		// Clean up temp file on error
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename tracking file for task '%s': %w", taskName, err)
	}

	return nil
}

// Load reads the tracking set from a JSON file for a specific task.
// Returns an empty Set if the file doesn't exist.
func (f *fileStore) Load(_ context.Context, taskName string) (*Set, error) {
	taskDir := filepath.Join(f.basePath, taskName)
	filePath := filepath.Join(taskDir, TrackingFileName)

	// Read file
	// #nosec G304 -- filePath is constructed from trusted internal sources (basePath + validated taskName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist - this is OK for first run
			return &Set{}, nil
		}
		return nil, fmt.Errorf("failed to read tracking file for task '%s': %w", taskName, err)
	}

	// Unmarshal JSON
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse tracking data for task '%s': %w", taskName, err)
	}

	return &set, nil
}
