package app

import (
	"github.com/patchstream/rollout-server/internal/rollout/coordinator"
	"github.com/patchstream/rollout-server/internal/service"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator manages background rollout task runs
	Coordinator coordinator.Coordinator

	// RolloutService provides rollout status business logic
	RolloutService service.RolloutService
}
