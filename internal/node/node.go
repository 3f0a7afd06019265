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

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/resi"
	"github.com/blinklabs-io/resi/api"
	"github.com/blinklabs-io/resi/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlatformConfig translates the file/env config into platform options
func PlatformConfig(
	cfg *config.Config,
	logger *slog.Logger,
	extra ...resi.ConfigOptionFunc,
) (resi.Config, error) {
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return resi.Config{}, err
	}
	opts := []resi.ConfigOptionFunc{
		resi.WithLogger(logger),
		resi.WithDatabasePath(cfg.DatabasePath),
		resi.WithBlobPlugin(cfg.BlobPlugin),
		resi.WithBlobOptions(cfg.BlobOptions()),
		resi.WithMetadataPlugin(cfg.MetadataPlugin),
		resi.WithMetadataOptions(cfg.MetadataOptions()),
		resi.WithShutdownTimeout(shutdownTimeout),
		resi.WithTracing(cfg.Tracing),
		resi.WithTracingStdout(cfg.TracingStdout),
	}
	return resi.NewConfig(append(opts, extra...)...), nil
}

// OpenPlatform creates the platform and loads the registry and token when
// they have been deployed
func OpenPlatform(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	extra ...resi.ConfigOptionFunc,
) (*resi.Platform, error) {
	platformCfg, err := PlatformConfig(cfg, logger, extra...)
	if err != nil {
		return nil, err
	}
	p, err := resi.New(platformCfg)
	if err != nil {
		return nil, err
	}
	if err := p.Open(ctx); err != nil && !errors.Is(err, resi.ErrNotBootstrapped) {
		_ = p.Shutdown()
		return nil, err
	}
	return p, nil
}

// Run serves the read API and metrics until SIGINT or SIGTERM
func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	p, err := OpenPlatform(
		signalCtx,
		cfg,
		logger,
		// Enable metrics with default prometheus registry
		resi.WithPrometheusRegistry(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return err
	}
	if p.Registry() == nil {
		logger.Warn(
			"platform has not been deployed yet, API queries will fail until it is",
			"component", "node",
		)
	}
	apiServer := api.New(
		api.Config{
			ListenAddress: fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			Gatherer:      prometheus.DefaultGatherer,
		},
		api.NewPlatformAdapter(p),
		logger,
	)
	if err := apiServer.Start(signalCtx); err != nil {
		_ = p.Shutdown()
		return err
	}
	// Metrics listener
	var metricsServer *http.Server
	errChan := make(chan error, 1)
	if cfg.MetricsPort > 0 && cfg.MetricsPort != cfg.ApiPort {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		logger.Info(
			"serving prometheus metrics on "+metricsServer.Addr,
			"component", "node",
		)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics listener: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown", "component", "node")
	case runErr = <-errChan:
		logger.Error("listener failed", "component", "node", "error", runErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if err := p.Shutdown(); err != nil {
		logger.Error("shutdown errors occurred", "component", "node", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if runErr == nil {
		logger.Info("shutdown complete", "component", "node")
	}
	return runErr
}
