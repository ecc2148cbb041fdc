package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"joiny/internal/repository/postgres"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  `Applies the schema statements in order. Every statement is idempotent, so running migrate twice is safe.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			a.logger.Info("schema is up to date")
			return nil
		},
	}
}
