// OtakuLog - Social Anime Review and Discovery Platform
// Copyright 2026 Mei K. (otakulog)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/otakulog/otakulog

// Package main is the entry point for the OtakuLog discovery service.
//
// The discovery service is the stateless backend behind the review app's
// anime search and recommendation screens. It exposes two POST endpoints
// backed by the AniList public catalog, plus health probes and a
// Prometheus metrics endpoint. Nothing is persisted; every request stands
// alone.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, config.yaml, env)
//  2. Logging: zerolog, JSON in production
//  3. Catalog client: AniList GraphQL with rate limiting and a circuit breaker
//  4. Recommendation engine: stateless scoring pipeline
//  5. HTTP server: Chi router with CORS, rate limiting, request IDs, metrics
//
// # Configuration
//
// Key environment variables (see internal/config for the full set):
//
//	SERVER_PORT     listen port (default 8480)
//	CATALOG_URL     AniList GraphQL endpoint (default https://graphql.anilist.co)
//	CATALOG_TIMEOUT upstream round-trip bound (default 10s)
//	CORS_ORIGINS    comma-separated allowed origins for the frontend
//	LOG_LEVEL       debug, info, warn, error (default info)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and drains in-flight requests within the
// configured shutdown timeout (default 10s).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/otakulog/otakulog/internal/api"
	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/config"
	"github.com/otakulog/otakulog/internal/logging"
	"github.com/otakulog/otakulog/internal/recommend"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_url", cfg.Catalog.URL).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting OtakuLog discovery service")

	// Catalog client and recommendation engine share one logger root.
	client := catalog.NewClient(&cfg.Catalog, logging.Logger())
	engine := recommend.NewEngine(client, logging.Logger())

	handler := api.NewHandler(cfg, client, engine)
	mw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	routes := api.NewRouter(handler, mw).Setup()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Serve until interrupted.
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown incomplete, forcing close")
		_ = server.Close()
	}

	logging.Info().Msg("Server stopped")
}
