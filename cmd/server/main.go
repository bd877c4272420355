package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newsletter/newsletter/internal/config"
	"github.com/newsletter/newsletter/internal/database"
	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/email"
	"github.com/newsletter/newsletter/internal/handler"
	"github.com/newsletter/newsletter/internal/logger"
	"github.com/newsletter/newsletter/internal/middleware"
	"github.com/newsletter/newsletter/internal/repository"
	"github.com/newsletter/newsletter/internal/router"
	"github.com/newsletter/newsletter/internal/service"
	"github.com/newsletter/newsletter/internal/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", "0.1.0").Msg("starting newsletter server")

	// Initialize tracing
	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis (optional)
	var rdb *database.Redis
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("connected to Redis")
	}

	// Initialize email sender
	sender, err := newEmailSender(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email sender")
	}
	log.Info().Str("provider", cfg.Email.Provider).Msg("email sender initialized")

	// Initialize repositories and services
	subsRepo := repository.NewSubscriptionRepository(db)
	subsSvc := service.NewSubscriptionService(subsRepo, sender, cfg.Application.BaseURL, cfg.Email.SenderName, log)

	// Initialize handlers
	h := handler.New(db, rdb, log, cfg, subsSvc)

	// Initialize middleware
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newEmailSender builds the confirmation email sender for the configured provider
func newEmailSender(ctx context.Context, cfg *config.Config) (email.Sender, error) {
	from, err := domain.ParseSubscriberEmail(cfg.Email.SenderAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	switch cfg.Email.Provider {
	case "gmail":
		gs, err := email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: cfg.Email.Gmail.CredentialsJSON,
			ClientID:        cfg.Email.Gmail.ClientID,
			ClientSecret:    cfg.Email.Gmail.ClientSecret,
			RefreshToken:    cfg.Email.Gmail.RefreshToken,
			Sender:          from,
			SenderName:      cfg.Email.SenderName,
			Timeout:         cfg.Email.Gmail.Timeout,
		}, nil)
		if err != nil {
			return nil, err
		}
		return gs, nil
	default:
		ps, err := email.NewPostmarkSender(email.PostmarkConfig{
			BaseURL:     cfg.Email.Postmark.BaseURL,
			ServerToken: cfg.Email.Postmark.ServerToken,
			Sender:      from,
			Timeout:     cfg.Email.Postmark.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return ps, nil
	}
}
