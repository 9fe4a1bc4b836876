package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/verification-api/internal/config"
	"github.com/verification-api/internal/infrastructure/badgerdb"
	transporthttp "github.com/verification-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	cfg := config.Load()

	log.Logger = log.Logger.Level(zerolog.InfoLevel)
	if cfg.AppEnv == "development" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	if cfg.APIKey == "" {
		log.Fatal().Msg("API_KEY must be set")
	}

	db, err := badgerdb.Open(cfg.BadgerPath, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.BadgerPath).Msg("failed to open store")
	}
	repo := badgerdb.NewVerificationRepo(db)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Periodic value-log GC. Reclaims space from deleted records only;
	// expired records are removed lazily when fetched, never here.
	go func() {
		t := time.NewTicker(cfg.BadgerGCInterval)
		defer t.Stop()
		for range t.C {
			if err := repo.RunGC(); err != nil {
				log.Warn().Err(err).Msg("badger gc pass failed")
			}
		}
	}()

	router := transporthttp.NewRouter(cfg, log.Logger, &transporthttp.Deps{
		VerificationRepo: repo,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
