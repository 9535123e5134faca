package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "Inspect and manage updates on the administration server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

var updatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List updates awaiting approval",
	Long: `List updates on the administration server that have no approval for any
target group. The classification filter from the task configuration does not
apply here; use --classification to filter explicitly.`,
	RunE: runUpdatesList,
}

var updatesApproveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve an update for a target group",
	Long: `Approve an update for installation on a single target group.

This talks to the administration server directly and does not open a tracking
entry, so the rollout engine will not manage the update's promotion. Intended
for manual out-of-band approvals.`,
	RunE: runUpdatesApprove,
}

var updatesDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline an update server-wide",
	RunE:  runUpdatesDecline,
}

func init() {
	updatesCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := updatesCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	updatesListCmd.Flags().StringSlice("classification", nil, "Only list updates with these classifications")
	updatesListCmd.Flags().String("format", "", "Output format (json)")

	updatesApproveCmd.Flags().String("id", "", "Update ID (required)")
	updatesApproveCmd.Flags().String("group", "", "Target group ID (required)")
	if err := updatesApproveCmd.MarkFlagRequired("id"); err != nil {
		panic(err)
	}
	if err := updatesApproveCmd.MarkFlagRequired("group"); err != nil {
		panic(err)
	}

	updatesDeclineCmd.Flags().String("id", "", "Update ID (required)")
	if err := updatesDeclineCmd.MarkFlagRequired("id"); err != nil {
		panic(err)
	}

	updatesCmd.AddCommand(updatesListCmd)
	updatesCmd.AddCommand(updatesApproveCmd)
	updatesCmd.AddCommand(updatesDeclineCmd)
}

func runUpdatesList(cmd *cobra.Command, _ []string) error {
	classifications, err := cmd.Flags().GetStringSlice("classification")
	if err != nil {
		return fmt.Errorf("failed to get classification flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	client, _, err := adminClientFromFlags(cmd)
	if err != nil {
		return err
	}

	updates, err := client.ListUnapprovedUpdates(cmd.Context(), classifications)
	if err != nil {
		return fmt.Errorf("failed to list updates: %w", err)
	}

	if format == "json" {
		output, err := json.MarshalIndent(updates, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format updates as JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(updates) == 0 {
		fmt.Println("No unapproved updates")
		return nil
	}

	fmt.Printf("%-40s %-22s %-16s %s\n", "ID", "CLASSIFICATION", "REFERENCE", "TITLE")
	for _, u := range updates {
		fmt.Printf("%-40s %-22s %-16s %s\n", u.ID, u.Classification, u.ReferenceCode, u.Title)
	}
	return nil
}

func runUpdatesApprove(cmd *cobra.Command, _ []string) error {
	updateID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	groupID, err := cmd.Flags().GetString("group")
	if err != nil {
		return fmt.Errorf("failed to get group flag: %w", err)
	}

	client, _, err := adminClientFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := client.ApproveUpdate(cmd.Context(), updateID, groupID); err != nil {
		return fmt.Errorf("failed to approve update: %w", err)
	}

	slog.Info("Update approved", "update_id", updateID, "target_group_id", groupID)
	return nil
}

func runUpdatesDecline(cmd *cobra.Command, _ []string) error {
	updateID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}

	client, _, err := adminClientFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := client.DeclineUpdate(cmd.Context(), updateID); err != nil {
		return fmt.Errorf("failed to decline update: %w", err)
	}

	slog.Info("Update declined", "update_id", updateID)
	return nil
}
