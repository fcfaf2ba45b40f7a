package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/task"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		data     string
		file     string
		kind     string
		title    string
		status   string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task from flags or a JSON payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload task.CreateTaskData
			if err := readPayload(cmd, data, file, &payload); err != nil {
				return err
			}
			if kind != "" {
				payload.Kind = task.Kind(kind)
			}
			if title != "" {
				payload.Title = title
			}
			if status != "" {
				payload.Status = task.Status(status)
			}
			if priority != "" {
				payload.Priority = task.Priority(priority)
			}

			return a.withRepository(cmd, func(repo *catalog.Repository) error {
				info, err := repo.Create(cmd.Context(), payload)
				if err != nil {
					return err
				}
				return writeTask(cmd.OutOrStdout(), a.output, info)
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON create payload")
	cmd.Flags().StringVar(&file, "file", "", "file with a JSON create payload (- for stdin)")
	cmd.Flags().StringVar(&kind, "kind", "", "task kind (task, subtask, bug, story, epic)")
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&status, "status", "", "initial status")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")

	return cmd
}
