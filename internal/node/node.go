// Copyright 2026 Blink Labs Software
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

	"github.com/blinklabs-io/laurel"
	"github.com/blinklabs-io/laurel/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}

	n, err := laurel.New(
		laurel.NewConfig(
			laurel.WithLogger(logger),
			laurel.WithDatabasePath(cfg.DatabasePath),
			laurel.WithBlobPlugin(cfg.BlobPlugin),
			laurel.WithMetadataPlugin(cfg.MetadataPlugin),
			laurel.WithApiListenAddress(cfg.ApiListenAddress()),
			laurel.WithBadgeMediaUrl(cfg.BadgeMediaUrl),
			laurel.WithAmqpUrl(cfg.AmqpUrl),
			laurel.WithAmqpExchange(cfg.AmqpExchange),
			laurel.WithTracing(cfg.Tracing),
			laurel.WithTracingStdout(cfg.TracingStdout),
			laurel.WithShutdownTimeout(shutdownTimeout),
			// Enable metrics with default prometheus registry
			laurel.WithPrometheusRegistry(prometheus.DefaultRegisterer),
		),
	)
	if err != nil {
		return err
	}

	// Metrics listener
	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.MetricsListenAddress(),
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		logger.Info(
			"serving prometheus metrics on "+metricsServer.Addr,
			"component", "node",
		)
	}

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	errChan := make(chan error, 2)
	if metricsServer != nil {
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics listener: %w", err)
			}
		}()
	}

	// Run node in goroutine
	go func() {
		//nolint:contextcheck
		errChan <- n.Run(signalCtx)
	}()

	shutdownMetrics := func() {
		if metricsServer == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Wait for signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown")
		shutdownMetrics()
		if err := n.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil
	case err := <-errChan:
		shutdownMetrics()
		if stopErr := n.Stop(); stopErr != nil {
			logger.Error(
				"shutdown errors occurred during error cleanup",
				"error",
				stopErr,
			)
		}
		if err == nil {
			logger.Info("node stopped")
			return nil
		}
		logger.Error("node error", "error", err)
		return err
	}
}
