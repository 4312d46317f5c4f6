/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/container"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/utils"
	"github.com/spf13/cobra"
)

// queueCmd represents the queue command
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Print a user's work queue as JSON",
	Long: `Print the unified work queue of one user using the same aggregation as the API.
Use --counts for per-type counts or --available for unassigned work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}

		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		return runQueue(cmd, ctr.MyWorkService())
	},
}

// runQueue 根据标志调用工作队列服务并输出 JSON
func runQueue(cmd *cobra.Command, svc service.MyWorkService) error {
	flags := cmd.Flags()
	orgID, _ := flags.GetString("org")
	userID, _ := flags.GetString("user")
	limit, _ := flags.GetInt("limit")
	counts, _ := flags.GetBool("counts")
	available, _ := flags.GetBool("available")
	ctx := cmd.Context()

	var result interface{}
	var err error
	switch {
	case counts:
		result, err = svc.GetTaskCounts(ctx, orgID, userID)
	case available:
		role, _ := flags.GetString("role")
		region, _ := flags.GetString("region")
		result, err = svc.GetAvailableTasks(ctx, &service.AvailableTasksParams{
			OrganizationID: orgID,
			UserID:         userID,
			UserRole:       role,
			UserRegion:     region,
			Limit:          limit,
		})
	default:
		types, _ := flags.GetStringSlice("type")
		sortBy, _ := flags.GetString("sort-by")
		offset, _ := flags.GetInt("offset")

		filters := &service.TaskFilters{}
		for _, t := range utils.SplitList(types) {
			filters.Types = append(filters.Types, service.TaskType(t))
		}
		result, err = svc.GetMyTasks(ctx, &service.MyTasksParams{
			OrganizationID: orgID,
			UserID:         userID,
			Filters:        filters,
			SortBy:         service.SortBy(sortBy),
			Limit:          limit,
			Offset:         offset,
		})
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(queueCmd)

	queueCmd.Flags().String("org", "", "Organization ID")
	queueCmd.Flags().String("user", "", "User ID")
	queueCmd.Flags().StringSlice("type", nil, "Task types to include (repeatable or comma separated)")
	queueCmd.Flags().String("sort-by", string(service.SortByPriorityDueDate), "priority_due_date | due_date | created_at")
	queueCmd.Flags().Int("limit", 0, "Page size (0 uses the configured default)")
	queueCmd.Flags().Int("offset", 0, "Page offset")
	queueCmd.Flags().Bool("counts", false, "Print counts per task type")
	queueCmd.Flags().Bool("available", false, "Print unassigned tasks available to claim")
	queueCmd.Flags().String("role", "", "Caller role for --available")
	queueCmd.Flags().String("region", "", "Caller region for --available")
	_ = queueCmd.MarkFlagRequired("org")
	_ = queueCmd.MarkFlagRequired("user")
}
