package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/task"
)

func newListCmd(a *app) *cobra.Command {
	var (
		status   string
		priority string
		from     string
		to       string
		page     int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []task.FilterOption
			if status != "" {
				opts = append(opts, task.WithStatus(task.Status(status)))
			}
			if priority != "" {
				opts = append(opts, task.WithPriority(task.Priority(priority)))
			}
			if from != "" {
				t, err := parseDay(from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				opts = append(opts, task.CreatedFrom(t))
			}
			if to != "" {
				t, err := parseDay(to)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				opts = append(opts, task.CreatedTo(t))
			}
			if page > 0 || limit > 0 {
				if page == 0 {
					page = 1
				}
				opts = append(opts, task.WithPage(page, limit))
			}

			filter, err := task.NewFilter(opts...)
			if err != nil {
				return err
			}

			return a.withRepository(cmd, func(repo *catalog.Repository) error {
				result, err := repo.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return writeList(cmd.OutOrStdout(), a.output, result)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "status filter (todo, in_progress, review, done)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority filter (low, medium, high, urgent)")
	cmd.Flags().StringVar(&from, "from", "", "created on or after this day (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "created on or before this day (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().IntVar(&page, "page", 0, "1-based page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 20 when paging)")

	return cmd
}

// parseDay accepts a calendar date or a full timestamp.
func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
