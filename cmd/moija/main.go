// moija is a group scheduling service: participants mark the hours they
// cannot make, and the service derives a shared availability heatmap and
// recommended meeting blocks.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"moija/config"
	authadapter "moija/internal/adapters/auth"
	"moija/internal/adapters/email"
	"moija/internal/adapters/gcal"
	delivery "moija/internal/delivery/http"
	"moija/internal/delivery/http/controllers"
	"moija/internal/delivery/http/middleware"
	"moija/internal/realtime"
	"moija/internal/repository/postgres"
	"moija/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	tokenExpiry     = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	sessionRepo := postgres.NewSessionRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	unavailabilityRepo := postgres.NewUnavailabilityRepository(db)

	hub := realtime.NewHub()
	tokens := authadapter.NewJWT(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.SESSender,
		FromName:    "moija",
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	gcalClient := gcal.NewClient(http.DefaultClient, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	sessionService := services.NewSessionService(sessionRepo, serviceTimeout)
	participantService := services.NewParticipantService(sessionRepo, participantRepo, serviceTimeout)
	authService := services.NewAuthService(tokens, tokenExpiry)
	scheduleService := services.NewScheduleService(sessionRepo, participantRepo, unavailabilityRepo, hub, logger, serviceTimeout, 0)
	calendarService := services.NewCalendarImportService(sessionRepo, participantRepo, unavailabilityRepo, gcalClient, gcalClient, hub, serviceTimeout)
	invitationService := services.NewInvitationService(sessionRepo, mailer, cfg.PublicURL, logger, serviceTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go scheduleService.Run(ctx)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:        controllers.NewAuthController(logger, authService),
		Session:     controllers.NewSessionController(logger, sessionService),
		Participant: controllers.NewParticipantController(logger, participantService),
		Schedule:    controllers.NewScheduleController(logger, scheduleService, sessionService, hub),
		Calendar:    controllers.NewCalendarController(logger, calendarService),
		Invitation:  controllers.NewInvitationController(logger, invitationService),
	}, tokens, logger)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
