package rollout

import (
	"context"
	"log/slog"
	"time"

	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/tracking"
)

// runApprovalPhase scans each test group for unapproved updates matching the
// policy's classifications and approves them for that group, opening one
// tracking entry per update. Updates already tracked for the task are
// skipped, so the phase is idempotent.
//
// The phase never fails the run: listing failures skip the affected group,
// approval failures skip the affected update, and a panic is recovered and
// reported as zero new approvals. Entries opened before a panic stay in the
// set and are persisted by the caller.
func (e *defaultEngine) runApprovalPhase(
	ctx context.Context, taskName string, policy *config.PolicyConfig, set *tracking.Set,
) (newApprovals int) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Approval phase panicked", "task", taskName, "panic", r)
			newApprovals = 0
		}
	}()

	for _, groupID := range policy.TestGroups {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "Approval phase cancelled", "task", taskName)
			break
		}

		candidates, err := e.client.ListUnapprovedUpdates(ctx, policy.Classifications)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list unapproved updates",
				"task", taskName,
				"group", groupID,
				"error", err,
			)
			continue
		}

		for i := range candidates {
			if ctx.Err() != nil {
				break
			}

			update := &candidates[i]
			if set.Contains(update.ID) {
				continue
			}

			if err := e.client.ApproveUpdate(ctx, update.ID, groupID); err != nil {
				slog.ErrorContext(ctx, "Failed to approve update for test group",
					"task", taskName,
					"update", update.ID,
					"group", groupID,
					"error", err,
				)
				continue
			}

			now := time.Now().UTC()
			set.Add(tracking.Entry{
				UpdateID:               update.ID,
				TaskName:               taskName,
				Title:                  update.Title,
				ReferenceCode:          update.ReferenceCode,
				Status:                 tracking.StatusInTesting,
				ApprovedForTestAt:      now,
				EligibleForPromotionAt: now.AddDate(0, 0, policy.CoolingOffDays),
				StatusMessage:          "Approved for test group",
			})
			newApprovals++

			slog.InfoContext(ctx, "Update approved for test group",
				"task", taskName,
				"update", update.ID,
				"title", update.Title,
				"group", groupID,
			)
		}
	}

	return newApprovals
}
