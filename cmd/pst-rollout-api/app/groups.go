package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Inspect target groups on the administration server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List target groups",
	Long: `List all target groups known to the administration server.

Use the group IDs from this listing in the task policy configuration
(testGroups and productionGroups).`,
	RunE: runGroupsList,
}

func init() {
	groupsCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := groupsCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	groupsListCmd.Flags().String("format", "", "Output format (json)")

	groupsCmd.AddCommand(groupsListCmd)
}

func runGroupsList(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	client, _, err := adminClientFromFlags(cmd)
	if err != nil {
		return err
	}

	groups, err := client.ListTargetGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list target groups: %w", err)
	}

	if format == "json" {
		output, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format groups as JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%-40s %-30s %s\n", "ID", "NAME", "COMPUTERS")
	for _, g := range groups {
		fmt.Printf("%-40s %-30s %d\n", g.ID, g.Name, g.ComputerCount)
	}
	return nil
}
