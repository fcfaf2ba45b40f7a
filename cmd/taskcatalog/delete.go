package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return a.withRepository(cmd, func(repo *catalog.Repository) error {
				if err := repo.Delete(cmd.Context(), id); err != nil {
					return err
				}
				if a.output != outputText {
					return writeStructured(cmd.OutOrStdout(), a.output, map[string]int64{"deleted": id})
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
				return err
			})
		},
	}
}
