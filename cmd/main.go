package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamebay/tournament-engine/brackets"
	"github.com/gamebay/tournament-engine/config"
	"github.com/gamebay/tournament-engine/db"
	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/handlers"
	"github.com/gamebay/tournament-engine/repositories"
	api "github.com/gamebay/tournament-engine/routes"
	"github.com/gamebay/tournament-engine/services"
	"github.com/gamebay/tournament-engine/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn, "migrations"); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 not configured, evidence upload disabled")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	disputeRepo := repositories.NewPostgresDisputeRepository(dbConn)
	payoutRepo := repositories.NewPostgresPayoutRepository(dbConn)

	registry := engine.NewRegistry()
	committer := services.NewCommitter(dbConn, tournamentRepo, matchRepo, submissionRepo, disputeRepo, payoutRepo, wsHub, logger)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	tournamentService := services.NewTournamentService(tournamentRepo, logger)
	participantService := services.NewParticipantService(participantRepo, tournamentRepo, logger)
	bracketService := services.NewBracketService(dbConn, registry, tournamentRepo, participantRepo, matchRepo, submissionRepo, disputeRepo, wsHub, logger)
	matchService := services.NewMatchService(bracketService, tournamentRepo, participantRepo, committer, logger)
	disputeService := services.NewDisputeService(bracketService, tournamentRepo, participantRepo, disputeRepo, committer, logger)
	payoutService := services.NewPayoutService(payoutRepo, tournamentRepo)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.AutoUpdateStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoUpdateStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Participant: handlers.NewParticipantHandler(participantService),
		Bracket:     handlers.NewBracketHandler(bracketService),
		Match:       handlers.NewMatchHandler(matchService),
		Dispute:     handlers.NewDisputeHandler(disputeService),
		Payout:      handlers.NewPayoutHandler(payoutService),
		Evidence:    handlers.NewEvidenceHandler(uploader),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, logger),
	}, authService)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
