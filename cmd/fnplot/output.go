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
	"strings"

	"github.com/AleutianAI/fnplot/services/plotter"
	"github.com/AleutianAI/fnplot/services/plotter/config"
)

func renderParse(resp plotter.ParseResponse) {
	printer.Title("Function")
	printer.KeyValue("kind", resp.Kind)
	printer.KeyValue("canonical", resp.Canonical)
	if resp.Variable != "" {
		printer.KeyValue("variable", resp.Variable)
	}
	if len(resp.Keys) > 0 {
		printer.KeyValue("interpolation", resp.Interpolation)
		printer.KeyValue("points", len(resp.Keys))
	}
}

func renderEvaluation(cfg config.PlotConfig, eval plotter.Evaluation, samples int) {
	if cfg.Title {
		printer.Title(cfg.TitleString)
	}
	printer.KeyValue("domain", fmt.Sprintf("[%s, %s]", formatFloat(cfg.Domain.Left), formatFloat(cfg.Domain.Right)))
	printer.KeyValue("quality", len(eval.Grid))
	printer.KeyValue("range", fmt.Sprintf("[%s, %s]", formatFloat(eval.Min), formatFloat(eval.Max)))
	printer.KeyValue("padded", fmt.Sprintf("[%s, %s]", formatFloat(eval.PaddedMin), formatFloat(eval.PaddedMax)))
	if n := eval.NonFinite(); n > 0 {
		printer.Warning(fmt.Sprintf("%d samples are not finite and are left out of the range", n))
	}
	if len(eval.Series) == 0 {
		printer.Warning("no function is shown")
		return
	}

	header := []string{"x"}
	for _, s := range eval.Series {
		header = append(header, s.Source)
	}
	var rows [][]string
	for _, i := range sampleIndexes(len(eval.Grid), samples) {
		row := []string{formatFloat(eval.Grid[i])}
		for _, s := range eval.Series {
			row = append(row, formatFloat(s.Values[i]))
		}
		rows = append(rows, row)
	}
	printer.Newline()
	printer.Table(header, rows)
}

func renderFunctions(cfg config.PlotConfig, fns []plotter.FunctionInfo) {
	printer.Title(cfg.TitleString)
	printer.KeyValue("domain", fmt.Sprintf("[%s, %s]", formatFloat(cfg.Domain.Left), formatFloat(cfg.Domain.Right)))
	printer.KeyValue("quality", cfg.Quality)
	printer.KeyValue("canvas", fmt.Sprintf("%dx%d", cfg.CanvasSize.Width, cfg.CanvasSize.Height))
	printer.KeyValue("interpolation", cfg.Interpolation)
	printer.KeyValue("flags", displayFlags(cfg))

	rows := make([][]string, len(fns))
	for i, fn := range fns {
		shown := "no"
		if fn.Shown {
			shown = "yes"
		}
		rows[i] = []string{fmt.Sprint(i + 1), shown, fn.Kind, fn.Source}
	}
	printer.Newline()
	printer.Table([]string{"#", "shown", "kind", "source"}, rows)
}

func displayFlags(cfg config.PlotConfig) string {
	var on []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"mesh", cfg.Mesh},
		{"x_axis", cfg.XAxis},
		{"y_axis", cfg.YAxis},
		{"title", cfg.Title},
	} {
		if f.on {
			on = append(on, f.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}

// sampleIndexes picks n evenly spaced indexes of a grid of size total,
// always including both ends. n <= 0 or n >= total selects every index.
func sampleIndexes(total, n int) []int {
	if total == 0 {
		return nil
	}
	if n <= 0 || n >= total {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if n == 1 {
		return []int{0}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i * (total - 1) / (n - 1)
	}
	return out
}
