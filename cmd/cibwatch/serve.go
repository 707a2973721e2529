// cibwatch - Coordinated Inauthentic Behavior detection engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cibwatch

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cibwatch/internal/config"
	"github.com/tomtom215/cibwatch/internal/embedding"
	"github.com/tomtom215/cibwatch/internal/httpapi"
	"github.com/tomtom215/cibwatch/internal/logging"
	"github.com/tomtom215/cibwatch/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the cibwatch HTTP API",
		Long:  "Starts the synchronous and streaming /v1/analyze endpoints, configured via config.yaml and CIBWATCH_ environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: cfg.Logging.Timestamp,
		Output:    os.Stderr,
	})

	embedSvc, err := buildEmbeddingService(cfg)
	if err != nil {
		return fmt.Errorf("build embedding service: %w", err)
	}

	p := pipeline.New(embedSvc)
	router := httpapi.NewRouter(cfg, p)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("cibwatch HTTP API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logging.Info().Msg("cibwatch stopped gracefully")
	return nil
}

// buildEmbeddingService wires the local deterministic transport (the
// model-loading transport itself is an external collaborator out of
// scope for this engine, per spec.md §1) behind the cache/dedup/breaker
// front end, optionally backed by a persistent Badger cold tier.
func buildEmbeddingService(cfg *config.Config) (*embedding.Service, error) {
	transport := &embedding.LocalTransport{}
	opts := []embedding.Option{embedding.WithBatchSize(cfg.Embedding.BatchSize)}

	if cfg.Embedding.CacheDir != "" {
		backend, err := embedding.NewBadgerCacheBackend(cfg.Embedding.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open embedding cache at %s: %w", cfg.Embedding.CacheDir, err)
		}
		opts = append(opts, embedding.WithColdCache(backend))
	}

	return embedding.NewService(transport, opts...), nil
}
