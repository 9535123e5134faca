package rollout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// runPromotionPhase re-evaluates every open entry whose cooling-off period
// has elapsed: installation counts are refreshed, then the policy's gating
// rules decide between promote and block. Entries are evaluated
// independently; a failure on one never stops the rest.
//
// The only terminal error is a policy with no production groups, detected
// before any entry is touched. An unexpected failure while promoting one
// entry is recorded on that entry's status message and the loop moves on;
// the entry keeps its prior status. A panic outside the promote path is
// recovered and reported as zero promotions and blocks; mutations applied
// before it stay in the set.
func (e *defaultEngine) runPromotionPhase(
	ctx context.Context, taskName string, policy *config.PolicyConfig, set *tracking.Set,
) (promotions int, blocked int, runErr *Error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Promotion phase panicked", "task", taskName, "panic", r)
			promotions, blocked = 0, 0
			runErr = nil
		}
	}()

	if len(policy.ProductionGroups) == 0 {
		return 0, 0, &Error{
			Message: fmt.Sprintf("no production groups configured for task '%s'", taskName),
			Type:    ErrorTypeConfig,
		}
	}

	for _, i := range set.Open() {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "Promotion phase cancelled", "task", taskName)
			break
		}

		entry := &set.Entries[i]
		// The eligibility gate always uses the entry's original date, so a
		// blocked entry is reconsidered on every run once that date has passed.
		if time.Now().UTC().Before(entry.EligibleForPromotionAt) {
			continue
		}

		outcome, err := e.client.GetInstallationOutcome(ctx, entry.UpdateID, policy.TestGroups)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to query installation outcome",
				"task", taskName,
				"update", entry.UpdateID,
				"error", err,
			)
			continue
		}

		// Counts are telemetry, refreshed on every pass regardless of outcome
		entry.SuccessfulInstallations = outcome.Installed
		entry.FailedInstallations = outcome.Failed
		entry.PendingInstallations = outcome.Pending

		if policy.RequireSuccessfulInstallations &&
			entry.SuccessfulInstallations < policy.MinimumSuccessfulInstallations {
			entry.Status = tracking.StatusBlocked
			entry.StatusMessage = fmt.Sprintf("Insufficient successful installations: %d/%d",
				entry.SuccessfulInstallations, policy.MinimumSuccessfulInstallations)
			blocked++
			slog.InfoContext(ctx, "Update blocked",
				"task", taskName,
				"update", entry.UpdateID,
				"reason", entry.StatusMessage,
			)
			continue
		}

		if policy.AbortOnFailures && entry.FailedInstallations > policy.MaxAllowedFailures {
			entry.Status = tracking.StatusBlocked
			entry.StatusMessage = fmt.Sprintf("Too many failures: %d (max: %d)",
				entry.FailedInstallations, policy.MaxAllowedFailures)
			blocked++
			slog.InfoContext(ctx, "Update blocked",
				"task", taskName,
				"update", entry.UpdateID,
				"reason", entry.StatusMessage,
			)
			continue
		}

		if err := e.promoteEntry(ctx, taskName, policy, entry); err != nil {
			if entry.StatusMessage == "" {
				entry.StatusMessage = err.Error()
			} else {
				entry.StatusMessage += "; " + err.Error()
			}
			slog.ErrorContext(ctx, "Unexpected failure promoting update",
				"task", taskName,
				"update", entry.UpdateID,
				"error", err,
			)
			continue
		}
		promotions++
	}

	return promotions, blocked, nil
}

// promoteEntry approves the update for every production group and marks the
// entry promoted. A failing group is logged and the remaining groups are
// still attempted; partial approval does not revert the promotion. The
// returned error is non-nil only when the attempt is cut short by a panic,
// leaving the entry as it was at that point.
func (e *defaultEngine) promoteEntry(
	ctx context.Context, taskName string, policy *config.PolicyConfig, entry *tracking.Entry,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error during promotion: %v", r)
		}
	}()

	for _, groupID := range policy.ProductionGroups {
		if err := e.client.ApproveUpdate(ctx, entry.UpdateID, groupID); err != nil {
			slog.ErrorContext(ctx, "Failed to approve update for production group",
				"task", taskName,
				"update", entry.UpdateID,
				"group", groupID,
				"error", err,
			)
		}
	}

	now := time.Now().UTC()
	entry.Status = tracking.StatusPromoted
	entry.PromotedAt = &now
	entry.StatusMessage = "Promoted to production"

	slog.InfoContext(ctx, "Update promoted to production",
		"task", taskName,
		"update", entry.UpdateID,
		"title", entry.Title,
	)

	if policy.DeclineSupersededUpdates {
		e.declineIfSuperseded(ctx, taskName, entry)
	}

	return nil
}

// declineIfSuperseded issues a best-effort decline for a promoted update the
// server now reports as superseded. Failures never revert the promotion.
func (e *defaultEngine) declineIfSuperseded(ctx context.Context, taskName string, entry *tracking.Entry) {
	superseded, err := e.client.IsSuperseded(ctx, entry.UpdateID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to check update supersession",
			"task", taskName,
			"update", entry.UpdateID,
			"error", err,
		)
		return
	}
	if !superseded {
		return
	}

	if err := e.client.DeclineUpdate(ctx, entry.UpdateID); err != nil {
		slog.WarnContext(ctx, "Failed to decline superseded update",
			"task", taskName,
			"update", entry.UpdateID,
			"error", err,
		)
		return
	}

	slog.InfoContext(ctx, "Superseded update declined", "task", taskName, "update", entry.UpdateID)
}
