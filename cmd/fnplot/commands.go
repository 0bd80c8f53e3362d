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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	logLevel    string
	jsonOutput  bool
	personality string
	logDir      string

	rootCmd = &cobra.Command{
		Use:   "fnplot",
		Short: "Plot analytical functions and interpolated point lists",
		Long: `fnplot classifies function inputs as formulas or point lists,
evaluates them over a domain, and keeps a persistent plot configuration.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setupCommand,
		PersistentPostRunE: teardownCommand,
	}

	// --- Stateless ---
	parseCmd = &cobra.Command{
		Use:   "parse <text>",
		Short: "Classify a function input and describe it",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse, // Defined in cmd_parse.go
	}
	evalCmd = &cobra.Command{
		Use:   "eval [text...]",
		Short: "Evaluate functions (or the configured ones) over a domain",
		RunE:  runEval, // Defined in cmd_eval.go
	}

	// --- Config ---
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Show and change the persisted plot configuration",
	}
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration if none exists",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit, // Defined in cmd_config.go
	}
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the configuration and its functions",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	configSetFunctionCmd = &cobra.Command{
		Use:   "set-function <index> <text>",
		Short: "Replace the source of function <index> (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSetFunction,
	}
	configToggleCmd = &cobra.Command{
		Use:   "toggle <index|mesh|x_axis|y_axis|title>",
		Short: "Toggle a function's visibility or a display flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigToggle,
	}
	configAddCmd = &cobra.Command{
		Use:   "add [text]",
		Short: "Append a function, the default one when no text is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigAdd,
	}
	configRemoveCmd = &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove function <index> (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigRemove,
	}
	configDomainCmd = &cobra.Command{
		Use:   "domain",
		Short: "Move the domain bounds",
		Args:  cobra.NoArgs,
		RunE:  runConfigDomain,
	}
	configSetCmd = &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Change a display setting (title_string, quality, canvas_width, ...)",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}

	// --- Long running ---
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate and print the plot whenever the config file changes",
		Args:  cobra.NoArgs,
		RunE:  runWatch, // Defined in cmd_watch.go
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the plotter HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

// Flags for individual commands.
var (
	evalLeft          float64
	evalRight         float64
	evalQuality       int
	evalSamples       int
	evalInterpolation string

	domainLeft  float64
	domainRight float64

	serveHost    string
	servePort    int
	serveDebug   bool
	serveRate    float64
	serveBurst   int
	serveWorkers int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the plot config (default ~/.fnplot/plot.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Also write JSON logs to a daily file in this directory (default $FNPLOT_LOG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Write JSON output and JSON logs")
	rootCmd.PersistentFlags().StringVar(&personality, "personality", "",
		"Output style: full, minimal, or machine (default: detect from the terminal)")

	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&evalInterpolation, "interpolation", "",
		"Interpolation for point lists (cosine, linear, step, or an easing such as in-out-quad)")

	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Float64Var(&evalLeft, "left", 0, "Left domain bound (default from config)")
	evalCmd.Flags().Float64Var(&evalRight, "right", 0, "Right domain bound (default from config)")
	evalCmd.Flags().IntVar(&evalQuality, "quality", 0, "Number of grid points (default from config)")
	evalCmd.Flags().IntVar(&evalSamples, "samples", 11, "Rows in the sample table; 0 prints every grid point")
	evalCmd.Flags().StringVar(&evalInterpolation, "interpolation", "",
		"Interpolation for point lists (default from config)")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetFunctionCmd)
	configCmd.AddCommand(configToggleCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configDomainCmd)
	configCmd.AddCommand(configSetCmd)
	configDomainCmd.Flags().Float64Var(&domainLeft, "left", 0, "New left bound, capped at the right bound")
	configDomainCmd.Flags().Float64Var(&domainRight, "right", 0, "New right bound, raised to the left bound")

	rootCmd.AddCommand(watchCmd)

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable gin debug mode and request logging")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 50, "Requests per second before 429; 0 disables limiting")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 0, "Rate limiter burst (default 2x rate)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Concurrent function evaluations (default CPU count)")
}
