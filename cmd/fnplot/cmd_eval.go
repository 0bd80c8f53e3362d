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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fnplot/services/plotter"
	"github.com/AleutianAI/fnplot/services/plotter/config"
)

// runEval evaluates the functions given as arguments, or the configured
// ones when there are none. Arguments must all parse; configured functions
// that do not parse fall back to the default like everywhere else.
func runEval(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg := config.LoadOrDefault(path, slog.Default())

	if len(args) > 0 {
		cfg.Functions = make([]config.FunctionConfig, len(args))
		for i, arg := range args {
			cfg.Functions[i] = config.FunctionConfig{Source: arg, Shown: true}
		}
	}
	if err := applyEvalFlags(cmd, &cfg); err != nil {
		return err
	}

	svc := plotter.NewService(plotter.DefaultServiceConfig(), nil)
	var eval plotter.Evaluation
	if len(args) > 0 {
		eval, err = svc.EvaluateConfig(cmd.Context(), cfg)
	} else {
		eval, err = plotter.NewPlot(cfg, slog.Default()).Evaluate(cmd.Context())
	}
	if err != nil {
		return err
	}

	if printer.Machine() {
		return printer.JSON(eval)
	}
	renderEvaluation(cfg, eval, evalSamples)
	return nil
}

// applyEvalFlags overrides cfg with the flags the user set.
func applyEvalFlags(cmd *cobra.Command, cfg *config.PlotConfig) error {
	flags := cmd.Flags()
	if flags.Changed("left") {
		cfg.Domain.Left = evalLeft
	}
	if flags.Changed("right") {
		cfg.Domain.Right = evalRight
	}
	if flags.Changed("quality") {
		cfg.Quality = evalQuality
	}
	if flags.Changed("interpolation") {
		cfg.Interpolation = evalInterpolation
	}
	if evalSamples < 0 {
		return fmt.Errorf("--samples must not be negative, got %d", evalSamples)
	}
	return cfg.Validate()
}
