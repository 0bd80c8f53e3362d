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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fnplot/services/plotter"
	"github.com/AleutianAI/fnplot/services/plotter/config"
)

// runWatch prints the plot, then prints it again every time the config
// file is saved, until interrupted.
func runWatch(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := config.EnsureExists(path); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := showEvaluation(ctx, config.LoadOrDefault(path, slog.Default())); err != nil {
		return err
	}

	watcher, err := config.NewWatcher(path, func(cfg config.PlotConfig, err error) {
		if err != nil {
			printer.Warning("Config not reloaded: " + err.Error())
			return
		}
		if err := showEvaluation(ctx, cfg); err != nil && ctx.Err() == nil {
			printer.Error(err.Error())
		}
	}, nil)
	if err != nil {
		return err
	}

	slog.Info("Watching config", "path", watcher.Path())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func showEvaluation(ctx context.Context, cfg config.PlotConfig) error {
	eval, err := plotter.NewPlot(cfg, slog.Default()).Evaluate(ctx)
	if err != nil {
		return err
	}
	if printer.Machine() {
		return printer.JSON(eval)
	}
	renderEvaluation(cfg, eval, evalSamples)
	return nil
}
