package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return a.withRepository(cmd, func(repo *catalog.Repository) error {
				info, err := repo.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeTask(cmd.OutOrStdout(), a.output, info)
			})
		},
	}
}
