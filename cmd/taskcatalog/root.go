package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-catalog/catalog"
	"github.com/goliatone/go-task-catalog/internal/config"
	"github.com/goliatone/go-task-catalog/pkg/di"
)

// app carries the state shared by every subcommand once the root command
// has loaded configuration.
type app struct {
	configPath string
	logLevel   string
	output     string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "taskcatalog",
		Short:         "Query and edit a cached task catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "output format (text, json, yaml)")

	cmd.AddCommand(
		newMigrateCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := validateOutput(a.output); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newCLILogger(cmd.ErrOrStderr(), a.logLevel, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// withRepository opens the catalog for the duration of fn. The schema is
// created on first use so a fresh database works without running migrate.
func (a *app) withRepository(cmd *cobra.Command, fn func(*catalog.Repository) error) error {
	container, err := di.NewContainer(cmd.Context(), a.cfg, di.WithLogger(a.logger), di.WithSchema())
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			a.logger.Warn("close catalog", "error", err)
		}
	}()

	return fn(container.Repository())
}
