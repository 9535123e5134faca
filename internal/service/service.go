// Package service provides the business logic for the rollout status API
package service

import (
	"context"
	"errors"

	"github.com/patchstream/rollout-server/internal/tracking"
)

// TracerName is the name used for the rollout service tracer
const TracerName = "github.com/patchstream/rollout-server/service"

var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidFilter is returned when a list filter has an invalid value
	ErrInvalidFilter = errors.New("invalid filter")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go RolloutService

// RolloutService defines the interface for rollout status operations
type RolloutService interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// ListTasks returns every configured rollout task with its last run record
	ListTasks(ctx context.Context) ([]TaskStatus, error)

	// GetTask returns a single rollout task by name
	GetTask(ctx context.Context, name string) (*TaskStatus, error)

	// ListTaskEntries returns the tracking entries recorded for a task
	ListTaskEntries(ctx context.Context, name string, opts ...Option) ([]tracking.Entry, error)
}
