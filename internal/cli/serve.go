package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "joiny/docs"
	"joiny/internal/adapters/auth"
	"joiny/internal/adapters/email"
	"joiny/internal/adapters/realtime"
	"joiny/internal/adapters/themes"
	delivery "joiny/internal/delivery/http"
	"joiny/internal/delivery/http/controllers"
	"joiny/internal/delivery/http/middleware"
	"joiny/internal/repository/postgres"
	"joiny/internal/services"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg, logger := a.cfg, a.logger

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("configure mailer: %w", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	tx := postgres.NewTxManager(db)
	tokens := auth.NewJWT(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hub := realtime.NewHub(logger)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	userService := services.NewUserService(postgres.NewUserRepository(db), auth.NewBcryptHasher(auth.DefaultCost), tokens, tokens, emailService, logger)
	eventService := services.NewEventService(eventRepo, participantRepo, postgres.NewEventInvitationRepository(db), emailService, hub, logger, cfg.RequestTimeout)
	participantService := services.NewParticipantService(eventRepo, participantRepo, tx, hub, cfg.JoinMode, cfg.RequestTimeout)
	todoService := services.NewTodoService(postgres.NewTodoRepository(db), eventRepo, participantRepo, hub, cfg.RequestTimeout)
	themeService := services.NewThemeService(postgres.NewThemeRepository(db), themes.NewCatalog(cfg.ThemesFile), cfg.RequestTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, userService),
		Events:       controllers.NewEventController(logger, eventService, cfg.PublicBaseURL),
		Participants: controllers.NewParticipantController(logger, participantService, cfg.JoinMode),
		Todos:        controllers.NewTodoController(logger, todoService),
		Themes:       controllers.NewThemeController(logger, themeService),
		Realtime:     controllers.NewRealtimeController(logger, eventService, hub),
	}, tokens, logger)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "join_mode", cfg.JoinMode, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hub.Shutdown(shutdownCtx); err != nil {
		logger.Warn("closing websocket sessions", "err", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
