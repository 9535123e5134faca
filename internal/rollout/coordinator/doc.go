// Package coordinator provides background scheduling for rollout tasks.
//
// This package implements the orchestration layer that schedules and executes
// periodic rollout runs. It sits on top of rollout.Engine and handles:
//
//   - Background schedule polling using time.Ticker with jitter
//   - Initial schedule check on startup
//   - Run status persistence around each run
//   - At most one run per task at a time
//   - Graceful shutdown
//
// # Architecture
//
// The coordinator separates concerns between:
//
//   - internal/rollout: Domain logic (which updates to approve, promote, or block)
//   - internal/rollout/coordinator: Orchestration (scheduling, lifecycle, run status)
//   - cmd/app/serve: HTTP server lifecycle (just starts/stops the coordinator)
//
// # Core Interface
//
// The Coordinator interface provides a simple lifecycle API:
//
//	type Coordinator interface {
//	    Start(ctx context.Context) error  // Begin background scheduling loop
//	    Stop() error                      // Graceful shutdown
//	}
//
// # Usage Example
//
//	// Create dependencies
//	engine := rollout.NewEngine(client, store)
//	persistence := status.NewFileStatusPersistence(baseDir)
//
//	// Create coordinator with injected dependencies
//	coordinator := coordinator.New(engine, persistence, config)
//
//	// Start background scheduling
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	go coordinator.Start(ctx)
//
//	// ... run server ...
//
//	// Stop on shutdown
//	coordinator.Stop()
//
// # Scheduling Flow
//
// 1. Ticker fires (every ~2 minutes with jitter)
// 2. Coordinator checks each task's run status against its configured interval
// 3. Due tasks whose run slot is free start a run in their own goroutine
// 4. The run status record transitions Idle/Succeeded/Failed -> Running -> Succeeded/Failed
// 5. The record is persisted at each transition
//
// A task whose previous run is still in flight when it comes due again is
// skipped for that tick; the next tick picks it up once the slot frees.
//
// # Error Handling
//
// The coordinator handles errors gracefully:
//
//   - Failed runs are logged and the run status set to Failed with the reason
//   - The coordinator keeps running after failures; AttemptCount in the run
//     status counts runs since the last success
//   - Status persistence errors are logged but don't stop scheduling
//   - Records left in Running by a crashed process are reset to Failed on start
//
// # Shutdown
//
// Stop cancels the coordinator context and waits for in-flight runs. The
// engine stops issuing new administration server calls once the context is
// cancelled but still persists the decisions it already made, and the final
// run status record is always written.
package coordinator
