// Package tracking provides per-task rollout tracking data and its persistence.
package tracking

import (
	"context"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store defines the interface for tracking data persistence
type Store interface {
	// Load loads the tracking set for a specific task.
	// Returns an empty Set if nothing has been stored yet (first run).
	// Corrupt stored data is an error, never silently replaced.
	Load(ctx context.Context, taskName string) (*Set, error)

	// Save atomically replaces the stored tracking set for a specific task.
	// A failed save leaves the previously stored set intact.
	Save(ctx context.Context, taskName string, set *Set) error
}
