// Package rollout implements the staged approval engine that moves software
// updates from test group canaries to production-wide approval.
//
// A single run for one task executes two phases against the admin server,
// persisting tracking state after each one:
//
// # Approval Phase
//
// Scans each configured test group for updates that are not yet approved
// anywhere and whose classification matches the task policy (an empty
// classification list matches everything). Each new candidate is approved for
// the test group and opens a tracking entry in the InTesting state with its
// promotion eligibility date set to now plus the policy's cooling-off period.
// An update already tracked for the task is skipped, which makes re-running
// the phase safe.
//
// # Promotion Phase
//
// Re-evaluates every open (InTesting or Blocked) entry whose cooling-off
// period has elapsed. Installation counts across the test groups are
// refreshed on every pass, then the gating rules decide the outcome in a
// fixed order:
//
//   - RequireSuccessfulInstallations with too few successes blocks the entry
//   - AbortOnFailures with too many failures blocks the entry
//   - otherwise the update is approved for every production group and the
//     entry becomes Promoted
//
// A Blocked entry is reconsidered on every subsequent run once its original
// eligibility date has passed; Promoted is the only terminal state.
//
// # Failure Containment
//
// Failures of individual admin API calls are logged and never abort the
// surrounding loop: one failing update must not stop the rollout of the
// rest. Only tracking store errors and task configuration errors (such as a
// task with no production groups) terminate a run, reported as a structured
// Error with a machine-readable Type.
//
// # Entry Points
//
//   - Engine.RunTask: one complete run for one task, used by both the serve
//     mode coordinator and the one-shot run command
//   - The rollout/coordinator subpackage schedules periodic runs for all
//     configured tasks and persists per-task run status around each run
package rollout
