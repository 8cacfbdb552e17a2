package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/potatomail/potatomail/internal/auth"
	"github.com/potatomail/potatomail/internal/config"
	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/handler"
	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/mail"
	"github.com/potatomail/potatomail/internal/middleware"
	"github.com/potatomail/potatomail/internal/repository"
	"github.com/potatomail/potatomail/internal/router"
	"github.com/potatomail/potatomail/internal/service"
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
	log.Info().Str("version", "0.1.0").Msg("starting PotatoMail server")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)
	credRepo := repository.NewCredentialRepository(db)
	emailRepo := repository.NewEmailRepository(db)

	// Initialize token service
	tokenSvc, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// Initialize the SMTP sender for the configured relay
	sender := mail.NewSMTPSender(cfg.SMTP, log)
	log.Info().Str("relay", cfg.SMTP.Addr()).Msg("SMTP sender initialized")

	// Initialize services
	keySvc := service.NewKeyService(keyRepo, log)
	authSvc := service.NewAuthService(userRepo, tokenSvc, rdb, log)
	dispatchSvc := service.NewDispatchService(credRepo, sender, emailRepo, log)

	// Initialize handlers
	h := handler.New(db, rdb, log, cfg, dispatchSvc, keySvc, authSvc, credRepo)

	// Initialize middleware
	mw := middleware.New(log, cfg)

	// Set up router
	r := router.New(h, mw, keySvc, authSvc)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
