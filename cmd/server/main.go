// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

// Package main is the entry point for the Domolog server.
//
// Domolog is a smart-home telemetry backend: a device registry with
// geospatial lookup plus an append-only log store with full-text search
// and aggregation reports, backed by MongoDB.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file, env vars (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Store: MongoDB connection, ping, index provisioning
//  4. HTTP server: chi REST API plus Prometheus /metrics
//
// Shutdown on SIGINT/SIGTERM drains in-flight requests within the
// configured shutdown timeout, then disconnects from MongoDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/domolog/domolog/internal/api"
	"github.com/domolog/domolog/internal/config"
	"github.com/domolog/domolog/internal/logging"
	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/store"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("go_version", runtime.Version()).
		Msg("Starting Domolog")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer connectCancel()

	st, err := store.Connect(connectCtx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	logTTL := time.Duration(cfg.Retention.LogTTLDays) * 24 * time.Hour
	if err := st.EnsureIndexes(ctx, logTTL); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	handler := api.NewHandler(st, cfg, version)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
