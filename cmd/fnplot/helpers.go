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
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fnplot/pkg/logging"
	"github.com/AleutianAI/fnplot/pkg/ux"
	"github.com/AleutianAI/fnplot/services/plotter"
	"github.com/AleutianAI/fnplot/services/plotter/config"
)

// LogDirEnv names the log directory when --log-dir is not set.
const LogDirEnv = "FNPLOT_LOG_DIR"

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitError   = 1 // Operation failed
)

var (
	logger  *logging.Logger
	printer *ux.Printer
)

// setupCommand configures logging and output for every command.
func setupCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loggerConfig(cmd, nil)
	if err != nil {
		return err
	}
	logger = logging.New(cfg)
	logger.SetDefault()

	printer = ux.NewPrinter(cmd.OutOrStdout(), outputLevel(cmd))
	return nil
}

// loggerConfig builds the logging config from the global flags. --log-dir
// falls back to $FNPLOT_LOG_DIR.
func loggerConfig(cmd *cobra.Command, exporter logging.LogExporter) (logging.Config, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return logging.Config{}, err
	}
	dir := logDir
	if dir == "" {
		dir = os.Getenv(LogDirEnv)
	}
	return logging.Config{
		Level:    level,
		LogDir:   dir,
		Service:  "fnplot",
		JSON:     jsonOutput,
		Output:   cmd.ErrOrStderr(),
		Exporter: exporter,
	}, nil
}

// replaceLogger swaps the command logger for one built with exporter.
func replaceLogger(cmd *cobra.Command, exporter logging.LogExporter) error {
	cfg, err := loggerConfig(cmd, exporter)
	if err != nil {
		return err
	}
	if logger != nil {
		_ = logger.Close()
	}
	logger = logging.New(cfg)
	logger.SetDefault()
	return nil
}

func teardownCommand(*cobra.Command, []string) error {
	if logger != nil {
		return logger.Close()
	}
	return nil
}

// outputLevel picks the personality: --json wins, then --personality, then
// the environment, then terminal detection on the command's stdout.
func outputLevel(cmd *cobra.Command) ux.PersonalityLevel {
	switch {
	case jsonOutput:
		return ux.PersonalityMachine
	case personality != "":
		return ux.ParsePersonalityLevel(personality)
	}
	return ux.ResolveLevel(cmd.OutOrStdout())
}

// resolveConfigPath returns --config or the default path.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// openStore returns the file store for the resolved config path.
func openStore() (*config.FileStore, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.NewFileStore(path), nil
}

// loadPlot builds a plot from the stored config. A missing file yields the
// default plot; a file that does not load is an error so that mutating
// commands never overwrite it.
func loadPlot(ctx context.Context, store *config.FileStore) (*plotter.Plot, error) {
	cfg, err := store.Load(ctx)
	if errors.Is(err, config.ErrNotFound) {
		cfg = config.DefaultPlotConfig()
	} else if err != nil {
		return nil, fmt.Errorf("load %s: %w", store.Path(), err)
	}
	return plotter.NewPlot(cfg, slog.Default()), nil
}

// savePlot persists the plot config.
func savePlot(ctx context.Context, store *config.FileStore, plot *plotter.Plot) error {
	if err := store.Save(ctx, plot.Config()); err != nil {
		return fmt.Errorf("save %s: %w", store.Path(), err)
	}
	slog.Info("Config saved", "path", store.Path())
	return nil
}

// functionAt resolves a 1-based function index.
func functionAt(plot *plotter.Plot, arg string) (plotter.FunctionInfo, error) {
	fns := plot.Functions()
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > len(fns) {
		return plotter.FunctionInfo{}, fmt.Errorf("%w: index %q, plot has %d functions",
			plotter.ErrFunctionNotFound, arg, len(fns))
	}
	return fns[i-1], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
