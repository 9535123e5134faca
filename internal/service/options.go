package service

import (
	"fmt"

	"github.com/patchstream/rollout-server/internal/tracking"
)

// ListTaskEntriesOptions is the options for the ListTaskEntries operation
type ListTaskEntriesOptions struct {
	Status tracking.Status
}

// Option is a function that sets an option for the ListTaskEntries operation
type Option func(*ListTaskEntriesOptions) error

// WithStatus restricts ListTaskEntries to entries with the given status
func WithStatus(value string) Option {
	return func(o *ListTaskEntriesOptions) error {
		switch s := tracking.Status(value); s {
		case tracking.StatusInTesting, tracking.StatusBlocked, tracking.StatusPromoted:
			o.Status = s
			return nil
		default:
			return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, value)
		}
	}
}
