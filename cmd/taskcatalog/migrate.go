package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tasks table and indexes when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.EnsureSchema(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.logger.Info("schema ready", "driver", a.cfg.Database.Driver)

			if a.output != outputText {
				return writeStructured(cmd.OutOrStdout(), a.output, map[string]string{"status": "ok"})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return err
		},
	}
}
