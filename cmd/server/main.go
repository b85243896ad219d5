// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Command server runs the Gorehound recommendation API.
//
// Startup order: configuration, logging, DuckDB, optional corpus import,
// model store, initial snapshot build, HTTP listener. The process serves
// traffic only after the first snapshot is published; readiness probes
// report 503 until then.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frightclub/gorehound/internal/api"
	"github.com/frightclub/gorehound/internal/config"
	"github.com/frightclub/gorehound/internal/database"
	"github.com/frightclub/gorehound/internal/logging"
	"github.com/frightclub/gorehound/internal/recommend"
	"github.com/frightclub/gorehound/internal/recommend/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging.ToLogging())
	logger := logging.With().Str("component", "server").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Import.MoviesPath != "" || cfg.Import.ReviewsPath != "" || cfg.Import.RatingsPath != "" {
		logger.Info().Msg("Importing corpus files")
		if err := db.Import(ctx, cfg.Import); err != nil {
			return err
		}
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, db)
	if err != nil {
		return err
	}
	if cfg.ModelStore.Enabled {
		store, err := storage.Open(cfg.ModelStore.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		engine.SetModelStore(store)
	}

	logger.Info().Msg("Building initial snapshot")
	if err := engine.Rebuild(ctx); err != nil {
		return err
	}
	go engine.RunPeriodicRebuilds(ctx)

	handler := api.NewRouter(api.NewHandlers(engine, db), api.RouterOptions{
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		CORSOrigins:       cfg.Security.CORSOrigins,
	})
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("Shutdown complete")
	return nil
}
