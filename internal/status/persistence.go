// Package status provides run status tracking and persistence for rollout tasks.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_status_persistence.go -package=mocks -source=persistence.go StatusPersistence

const (
	// StatusFileName is the name of the per-task run status file
	StatusFileName = "status.json"
)

// StatusPersistence defines the interface for run status persistence
//
//nolint:revive // This name is fine
type StatusPersistence interface {
	// SaveStatus saves the run status to persistent storage for a specific task
	SaveStatus(ctx context.Context, taskName string, runStatus *RunStatus) error

	// LoadStatus loads the run status from persistent storage for a specific task
	// Returns an Idle RunStatus if nothing has been recorded yet (first run)
	LoadStatus(ctx context.Context, taskName string) (*RunStatus, error)

	// LoadAllStatus loads run status for all tasks that have one recorded
	LoadAllStatus(ctx context.Context) (map[string]*RunStatus, error)
}

// fileStatusPersistence implements StatusPersistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence.
// basePath is the base directory where per-task status files will be stored,
// alongside the task's tracking data.
func NewFileStatusPersistence(basePath string) StatusPersistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// SaveStatus saves the run status to a JSON file in a task-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, taskName string, runStatus *RunStatus) error {
	// Create task-specific directory if it doesn't exist
	taskDir := filepath.Join(f.basePath, taskName)
	if err := os.MkdirAll(taskDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for task '%s': %w", taskName, err)
	}

	filePath := filepath.Join(taskDir, StatusFileName)

	// Marshal status to JSON with pretty printing for readability
	data, err := json.MarshalIndent(runStatus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status data for task '%s': %w", taskName, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for task '%s': %w", taskName, err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		// Clean up temp file on error
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for task '%s': %w", taskName, err)
	}

	return nil
}

// LoadStatus loads the run status from a JSON file for a specific task
// Returns an Idle RunStatus if the file doesn't exist
func (f *fileStatusPersistence) LoadStatus(_ context.Context, taskName string) (*RunStatus, error) {
	taskDir := filepath.Join(f.basePath, taskName)
	filePath := filepath.Join(taskDir, StatusFileName)

	// Read file
	// #nosec G304 -- filePath is constructed from trusted internal sources (basePath + validated taskName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist - this is OK for first run
			return &RunStatus{Phase: RunPhaseIdle}, nil
		}
		return nil, fmt.Errorf("failed to read status file for task '%s': %w", taskName, err)
	}

	// Unmarshal JSON
	var runStatus RunStatus
	if err := json.Unmarshal(data, &runStatus); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status data for task '%s': %w", taskName, err)
	}

	return &runStatus, nil
}

// LoadAllStatus loads run status for all tasks with a data directory
func (f *fileStatusPersistence) LoadAllStatus(ctx context.Context) (map[string]*RunStatus, error) {
	result := make(map[string]*RunStatus)

	// Read all subdirectories in the base path
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Base directory doesn't exist yet, return empty map
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	// For each subdirectory, try to load status
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		taskName := entry.Name()
		runStatus, err := f.LoadStatus(ctx, taskName)
		if err != nil {
			// Skip unreadable records so one bad file doesn't hide the rest
			continue
		}

		result[taskName] = runStatus
	}

	return result, nil
}
