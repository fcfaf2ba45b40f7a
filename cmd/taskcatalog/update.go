package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/task"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		data     string
		file     string
		title    string
		status   string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Patch a task; JSON null clears a field",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])

			var patch task.UpdateTaskData
			if err := readPayload(cmd, data, file, &patch); err != nil {
				return err
			}
			if title != "" {
				patch.Title = task.Set(title)
			}
			if status != "" {
				patch.Status = task.Set(task.Status(status))
			}
			if priority != "" {
				patch.Priority = task.Set(task.Priority(priority))
			}

			return a.withRepository(cmd, func(repo *catalog.Repository) error {
				info, err := repo.Update(cmd.Context(), id, patch)
				if err != nil {
					return err
				}
				return writeTask(cmd.OutOrStdout(), a.output, info)
			})
		},
	}

	cmd.Flags().StringVar(&data, "data", "", `JSON patch, e.g. {"deadline": null}`)
	cmd.Flags().StringVar(&file, "file", "", "file with a JSON patch (- for stdin)")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")

	return cmd
}
