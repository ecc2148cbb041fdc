package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"joiny/config"
	"joiny/internal/repository/postgres"
)

// app carries state shared by subcommands once the root pre-run has loaded configuration.
type app struct {
	databaseURL string
	cfg         *config.Config
	logger      *slog.Logger
}

func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "joiny",
		Short: "Joiny - party planning backend",
		Long: `Joiny runs the party planning API: events with shareable invite codes,
participants joining by code or id, a shared todo list and a live party feed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.databaseURL, "database-url", "", "database connection URL (overrides DATABASE_URL)")

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newSeedThemesCommand(a))

	return rootCmd
}

// load reads configuration from the environment and applies flag overrides.
func (a *app) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.databaseURL != "" {
		cfg.DBUrl = a.databaseURL
	}
	a.cfg = cfg
	a.logger = config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := postgres.Open(ctx, a.cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
