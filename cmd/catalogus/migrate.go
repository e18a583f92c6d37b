package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalogus/catalogus-backend/internal/adapter/postgres"
	"github.com/catalogus/catalogus-backend/internal/app"
	"github.com/catalogus/catalogus-backend/migrations"
)

const migrateTimeout = 5 * time.Minute

func newMigrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	migrator := func() (*postgres.Migrator, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		return postgres.NewMigrator(cfg.Database.DSN, migrations.FS, app.NewLogger(cfg.Log)), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
				defer cancel()
				return m.Up(ctx)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
				defer cancel()
				return m.Down(ctx)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
				defer cancel()

				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tAPPLIED\tSOURCE")
				for _, s := range statuses {
					fmt.Fprintf(tw, "%d\t%t\t%s\n", s.Version, s.Applied, s.Path)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}
