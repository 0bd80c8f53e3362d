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
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fnplot/services/plotter"
	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// configView is the machine-readable form of `config show`.
type configView struct {
	Path      string                 `json:"path"`
	Config    config.PlotConfig      `json:"config"`
	Functions []plotter.FunctionInfo `json:"functions"`
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	created, err := config.EnsureExists(path)
	if err != nil {
		return err
	}
	if printer.Machine() {
		return printer.JSON(map[string]any{"path": path, "created": created})
	}
	if created {
		printer.Success("Created " + path)
	} else {
		printer.Success("Config already exists at " + path)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	plot, err := loadPlot(cmd.Context(), store)
	if err != nil {
		return err
	}
	return showPlot(store, plot)
}

func runConfigSetFunction(cmd *cobra.Command, args []string) error {
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		fn, err := functionAt(plot, args[0])
		if err != nil {
			return err
		}
		if _, err := plot.SetFunction(fn.ID, args[1]); err != nil {
			// The entry was reset to the default function; keep that state.
			if errors.Is(err, fnspec.ErrFormat) {
				printer.Warning(fmt.Sprintf("function %s reset to %s", args[0], fnspec.DefaultSource))
				return &keepChangesError{err: err}
			}
			return err
		}
		return nil
	})
}

func runConfigToggle(cmd *cobra.Command, args []string) error {
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		if _, err := strconv.Atoi(args[0]); err == nil {
			fn, err := functionAt(plot, args[0])
			if err != nil {
				return err
			}
			_, err = plot.ToggleFunction(fn.ID)
			return err
		}

		kind, err := plotter.ParseSettingKind(args[0])
		if err != nil {
			return err
		}
		setting, ok := plotter.ToggleSetting(plot.Config(), kind)
		if !ok {
			return fmt.Errorf("%w: %s is not a flag", plotter.ErrInvalidSetting, args[0])
		}
		return plot.Apply(setting)
	})
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		fn, err := plot.AddFunction()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
		if _, err := plot.SetFunction(fn.ID, args[0]); err != nil {
			// Nothing is saved, so the placeholder entry goes too.
			_ = plot.RemoveFunction(fn.ID)
			return err
		}
		return nil
	})
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		fn, err := functionAt(plot, args[0])
		if err != nil {
			return err
		}
		return plot.RemoveFunction(fn.ID)
	})
}

func runConfigDomain(cmd *cobra.Command, _ []string) error {
	var left, right *float64
	if cmd.Flags().Changed("left") {
		left = &domainLeft
	}
	if cmd.Flags().Changed("right") {
		right = &domainRight
	}
	if left == nil && right == nil {
		return errors.New("set --left, --right, or both")
	}
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		_, err := plot.SetDomain(left, right)
		return err
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	setting, err := plotter.ParseSetting(args[0], args[1])
	if err != nil {
		return err
	}
	return mutatePlot(cmd, func(plot *plotter.Plot) error {
		return plot.Apply(setting)
	})
}

// keepChangesError marks a failed mutation whose effect must still be
// saved, such as a function reset to the default.
type keepChangesError struct {
	err error
}

func (e *keepChangesError) Error() string { return e.err.Error() }
func (e *keepChangesError) Unwrap() error { return e.err }

// mutatePlot loads the stored plot, applies fn, saves, and shows the
// result. Nothing is saved when fn fails, unless it returns a
// *keepChangesError.
func mutatePlot(cmd *cobra.Command, fn func(*plotter.Plot) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	plot, err := loadPlot(cmd.Context(), store)
	if err != nil {
		return err
	}

	mutateErr := fn(plot)
	var keep *keepChangesError
	if mutateErr != nil && !errors.As(mutateErr, &keep) {
		return mutateErr
	}

	if err := savePlot(cmd.Context(), store, plot); err != nil {
		return err
	}
	if mutateErr != nil {
		return mutateErr
	}
	return showPlot(store, plot)
}

func showPlot(store *config.FileStore, plot *plotter.Plot) error {
	cfg := plot.Config()
	if printer.Machine() {
		return printer.JSON(configView{Path: store.Path(), Config: cfg, Functions: plot.Functions()})
	}
	renderFunctions(cfg, plot.Functions())
	return nil
}
