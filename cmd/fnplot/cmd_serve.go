// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/fnplot/pkg/telemetry"
	"github.com/AleutianAI/fnplot/services/plotter"
)

const shutdownTimeout = 10 * time.Second

// runServe serves the plotter API until interrupted.
func runServe(cmd *cobra.Command, _ []string) error {
	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	meter := otel.Meter("fnplot")
	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	logCounter, err := telemetry.NewLogCounter(meter)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := replaceLogger(cmd, logCounter); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	svcCfg := plotter.DefaultServiceConfig()
	if serveWorkers > 0 {
		svcCfg.Workers = serveWorkers
	}
	svc := plotter.NewService(svcCfg, store)
	svc.SetMetrics(metrics)
	reg, err := metrics.RegisterPlotsGauge(meter, func() int64 { return int64(svc.PlotCount()) })
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer func() { _ = reg.Unregister() }()

	router := plotter.NewRouter(svc, plotter.RouterConfig{
		Rate:    serveRate,
		Burst:   serveBurst,
		Metrics: metrics,
		Debug:   serveDebug,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(serveHost, strconv.Itoa(servePort)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Plotter API listening", "addr", server.Addr, "config", store.Path())
		errCh <- server.ListenAndServe()
	}()
	if !printer.Machine() {
		printer.Success("Serving on http://" + server.Addr + "/v1/fnplot")
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down plotter API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
