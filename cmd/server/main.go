// cmd/server is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gestevent/registration/internal/config"
	"github.com/gestevent/registration/internal/database"
	"github.com/gestevent/registration/internal/email"
	"github.com/gestevent/registration/internal/handler"
	"github.com/gestevent/registration/internal/repository"
	"github.com/gestevent/registration/internal/service"
	"github.com/gestevent/registration/internal/ticket"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logging)

	// ── 1. Connect to PostgreSQL and apply migrations ─────────────────────
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to PostgreSQL")

	if err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	// Without storage credentials the register endpoint answers env_missing
	// instead of failing mid-pipeline.
	var blobs ticket.BlobStore
	if cfg.Tickets.S3AccessKey != "" && cfg.Tickets.S3SecretKey != "" {
		blobs, err = ticket.NewMinioStore(cfg.Tickets)
		if err != nil {
			logger.Fatal().Err(err).Msg("blob store")
		}
	} else {
		logger.Warn().Msg("ticket storage credentials not set, registration disabled")
	}
	mailer := email.NewSender(cfg.Email, logger)

	eventRepo := repository.NewEventRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	rateLimitRepo := repository.NewRateLimitRepository(pool)
	consentRepo := repository.NewConsentRepository(pool)

	regSvc := service.NewRegistrationService(
		eventRepo, participantRepo, rateLimitRepo, consentRepo,
		blobs, mailer, cfg.RateLimit, cfg.Tickets.URLTTL, logger,
	)
	eventSvc := service.NewEventService(eventRepo, participantRepo)

	regHandler := handler.NewRegisterHandler(regSvc)
	eventHandler := handler.NewEventHandler(eventSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.AccessLog(logger))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// Anonymous public registration. Method gating lives in the handler so
	// non-POST requests get the boundary's own error envelope.
	r.HandleFunc("/public_register", regHandler.PublicRegister)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", eventHandler.CreateEvent)
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{slug}", eventHandler.GetEvent)
		r.Get("/{slug}/participants", eventHandler.ListParticipants)
		r.Get("/{slug}/participants.csv", eventHandler.ExportParticipantsCSV)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
