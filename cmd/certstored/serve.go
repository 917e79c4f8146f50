// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

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

	"github.com/blinklabs-io/certstore"
	"github.com/blinklabs-io/certstore/gateway"
	"github.com/blinklabs-io/certstore/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveRun(_ *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun()
	if err := run(cfg, logger); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	// Open the record store
	store, err := certstore.New(
		certstore.NewConfig(
			certstore.WithLogger(logger),
			certstore.WithDataDir(cfg.DataDir),
			certstore.WithBlobPlugin(cfg.BlobPlugin),
			certstore.WithMetadataPlugin(cfg.MetadataPlugin),
			certstore.WithIssuerOrg(cfg.IssuerOrg),
			certstore.WithVerifierOrg(cfg.VerifierOrg),
			certstore.WithPromRegistry(prometheus.DefaultRegisterer),
		),
	)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(
				"failed to close record store",
				"error", err,
			)
		}
	}()

	// Load sample records when requested
	if cfg.SeedLedger {
		if err := store.Seed(certstore.DefaultSeedCertificates()); err != nil {
			return fmt.Errorf("seeding ledger: %w", err)
		}
	}

	// Start metrics listener
	metricsListenAddr := fmt.Sprintf(
		"%s:%d",
		cfg.BindAddr,
		cfg.MetricsPort,
	)
	metricsServer := &http.Server{
		Addr:              metricsListenAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	go func() {
		logger.Info(
			"metrics listener started on " + metricsListenAddr,
			"component", programName,
		)
		if err := metricsServer.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Error(
				"metrics listener error",
				"error", err,
			)
		}
	}()

	// Start gateway API
	gw := gateway.New(
		gateway.GatewayConfig{
			ListenAddress: fmt.Sprintf(
				"%s:%d",
				cfg.BindAddr,
				cfg.ApiPort,
			),
		},
		store,
		logger,
	)
	if err := gw.Start(ctx); err != nil {
		return fmt.Errorf("starting gateway: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info(
		"shutting down",
		"component", programName,
	)

	shutdownTimeout, err := time.ParseDuration(cfg.ShutdownTimeout)
	if err != nil {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()
	if err := gw.Stop(shutdownCtx); err != nil {
		logger.Error(
			"failed to stop gateway",
			"error", err,
		)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(
			"failed to stop metrics listener",
			"error", err,
		)
	}
	return nil
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the record store gateway",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			serveRun(cmd, args, cfg)
		},
	}
	return cmd
}
