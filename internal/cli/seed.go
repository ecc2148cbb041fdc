package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"joiny/internal/adapters/themes"
	"joiny/internal/repository/postgres"
	"joiny/internal/services"
)

func newSeedThemesCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-themes",
		Short: "Load the party theme catalog into the database",
		Long: `Upserts every theme from the catalog. Without --file (or THEMES_FILE) the
bundled catalog is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if file == "" {
				file = a.cfg.ThemesFile
			}
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewThemeService(postgres.NewThemeRepository(db), themes.NewCatalog(file), a.cfg.RequestTimeout)
			n, err := svc.Seed(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("themes seeded", "count", n, "file", file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a themes YAML file")
	return cmd
}
