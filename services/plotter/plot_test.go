// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package plotter

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fnplot/pkg/logging"
	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

func newTestPlot(t *testing.T, sources ...string) (*Plot, *logging.BufferedExporter) {
	t.Helper()
	exporter := logging.NewBufferedExporter()
	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
	t.Cleanup(func() { _ = logger.Close() })

	cfg := config.DefaultPlotConfig()
	if len(sources) > 0 {
		cfg.Functions = nil
		for _, s := range sources {
			cfg.Functions = append(cfg.Functions, config.FunctionConfig{Source: s, Shown: true})
		}
	}
	return NewPlot(cfg, logger.Slog()), exporter
}

func TestNewPlot_Defaults(t *testing.T) {
	p, exporter := newTestPlot(t)

	fns := p.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, fnspec.DefaultSource, fns[0].Source)
	assert.Equal(t, "analytical", fns[0].Kind)
	assert.True(t, fns[0].Shown)
	assert.NotEmpty(t, p.ID())
	assert.Empty(t, exporter.Messages(logging.LevelError))
}

func TestNewPlot_FallbackLogsErrorThenWarning(t *testing.T) {
	exporter := logging.NewBufferedExporter()
	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	cfg := config.DefaultPlotConfig()
	cfg.Functions = []config.FunctionConfig{
		{Source: "x^2", Shown: true},
		{Source: "not a function @@@", Shown: false},
	}
	p := NewPlot(cfg, logger.Slog())

	fns := p.Functions()
	require.Len(t, fns, 2)
	assert.Equal(t, "x^2", fns[0].Source)
	assert.Equal(t, fnspec.DefaultSource, fns[1].Source)
	assert.False(t, fns[1].Shown)

	entries := exporter.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, logging.LevelError, entries[0].Level)
	assert.Equal(t, "not a function @@@", entries[0].Attrs["source"])
	assert.Equal(t, logging.LevelWarn, entries[1].Level)
	assert.Equal(t, p.ID(), entries[1].Attrs["plot_id"])
}

func TestNewPlot_DoesNotAliasConfig(t *testing.T) {
	cfg := config.DefaultPlotConfig()
	p := NewPlot(cfg, nil)
	cfg.Functions[0].Source = "x"
	cfg.TitleString = "changed"

	assert.Equal(t, fnspec.DefaultSource, p.Functions()[0].Source)
	assert.Equal(t, config.DefaultTitle, p.Config().TitleString)
}

func TestPlot_SetFunction(t *testing.T) {
	p, _ := newTestPlot(t)
	id := p.Functions()[0].ID

	fn, err := p.SetFunction(id, "[(0, 2), (1, 3.5)]")
	require.NoError(t, err)
	assert.Equal(t, "interpolated", fn.Kind)
	assert.Equal(t, id, fn.ID)

	eval, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, eval.Min)
	assert.Equal(t, 3.5, eval.Max)
}

func TestPlot_SetFunctionFailureResetsEntry(t *testing.T) {
	p, exporter := newTestPlot(t, "x^2")
	id := p.Functions()[0].ID
	_, err := p.ToggleFunction(id)
	require.NoError(t, err)

	fn, err := p.SetFunction(id, "x + y")
	require.Error(t, err)
	assert.ErrorIs(t, err, fnspec.ErrFormat)
	assert.ErrorIs(t, err, fnspec.ErrTooManyVariables)

	assert.Equal(t, id, fn.ID)
	assert.Equal(t, fnspec.DefaultSource, fn.Source)
	assert.False(t, fn.Shown)
	assert.Len(t, exporter.Messages(logging.LevelError), 1)
	assert.Len(t, exporter.Messages(logging.LevelWarn), 1)
}

func TestPlot_UnknownFunction(t *testing.T) {
	p, _ := newTestPlot(t)

	_, err := p.SetFunction("missing", "x")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
	_, err = p.ToggleFunction("missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
	assert.ErrorIs(t, p.RemoveFunction("missing"), ErrFunctionNotFound)
	_, err = p.Function("missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestPlot_AddRemoveFunction(t *testing.T) {
	cfg := config.DefaultPlotConfig()
	p := NewPlot(cfg, nil, WithMaxFunctions(2))

	added, err := p.AddFunction()
	require.NoError(t, err)
	assert.True(t, added.Shown)
	assert.Equal(t, fnspec.DefaultSource, added.Source)

	_, err = p.AddFunction()
	assert.ErrorIs(t, err, ErrTooManyFunctions)

	require.NoError(t, p.RemoveFunction(added.ID))
	fns := p.Functions()
	require.Len(t, fns, 1)
	assert.NotEqual(t, added.ID, fns[0].ID)
}

func TestPlot_ToggleHidesFromEvaluation(t *testing.T) {
	p, _ := newTestPlot(t, "x", "2")
	fns := p.Functions()

	shown, err := p.ToggleFunction(fns[1].ID)
	require.NoError(t, err)
	assert.False(t, shown)

	eval, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	require.Len(t, eval.Series, 1)
	assert.Equal(t, fns[0].ID, eval.Series[0].EntryID)
}

func TestPlot_DomainBoundsNeverCross(t *testing.T) {
	p, _ := newTestPlot(t)

	d := p.SetLeft(10)
	assert.Equal(t, config.Domain{Left: config.DefaultRight, Right: config.DefaultRight}, d)

	d = p.SetRight(-10)
	assert.Equal(t, config.Domain{Left: config.DefaultRight, Right: config.DefaultRight}, d)

	d = p.SetRight(5)
	assert.Equal(t, 5.0, d.Right)
	d = p.SetLeft(-1)
	assert.Equal(t, config.Domain{Left: -1, Right: 5}, d)
}

func TestPlot_SetDomain(t *testing.T) {
	p, _ := newTestPlot(t)
	ptr := func(v float64) *float64 { return &v }

	d, err := p.SetDomain(ptr(-10), ptr(20))
	require.NoError(t, err)
	assert.Equal(t, config.Domain{Left: -10, Right: 20}, d)

	_, err = p.SetDomain(ptr(3), ptr(1))
	assert.ErrorIs(t, err, ErrInvalidDomain)
	assert.Equal(t, config.Domain{Left: -10, Right: 20}, p.Domain())

	_, err = p.SetDomain(ptr(math.NaN()), nil)
	assert.ErrorIs(t, err, ErrInvalidDomain)

	_, err = p.SetDomain(nil, ptr(math.Inf(1)))
	assert.ErrorIs(t, err, ErrInvalidDomain)

	d, err = p.SetDomain(nil, ptr(-50))
	require.NoError(t, err)
	assert.Equal(t, config.Domain{Left: -10, Right: -10}, d)

	d, err = p.SetDomain(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Domain{Left: -10, Right: -10}, d)
}

func TestPlot_ApplyIsAtomic(t *testing.T) {
	p, _ := newTestPlot(t)
	before := p.Config()

	err := p.Apply(Mesh(true), Quality(5000))
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.Equal(t, before, p.Config())

	err = p.Apply(Interpolation("catmull-rom"))
	assert.ErrorIs(t, err, ErrInvalidSetting)

	require.NoError(t, p.Apply(Mesh(true), Quality(7), TitleString("parabola"), CanvasWidth(800)))
	cfg := p.Config()
	assert.True(t, cfg.Mesh)
	assert.Equal(t, 7, cfg.Quality)
	assert.Equal(t, "parabola", cfg.TitleString)
	assert.Equal(t, 800, cfg.CanvasSize.Width)
	assert.Len(t, p.Grid(), 7)
}

func TestPlot_ApplyInterpolationReparsesPointLists(t *testing.T) {
	p, _ := newTestPlot(t, "[(0, 0), (2, 4)]", "x")
	p.SetRight(2)
	p.SetLeft(0)

	require.NoError(t, p.Apply(Quality(3)))
	eval, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, eval.Series[0].Values[1], 1e-12)

	require.NoError(t, p.Apply(Interpolation("step")))
	eval, err = p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 4}, eval.Series[0].Values)
	assert.Equal(t, []float64{0, 1, 2}, eval.Series[1].Values)
}

func TestPlot_ToggleSetting(t *testing.T) {
	p, _ := newTestPlot(t)

	s, ok := ToggleSetting(p.Config(), SettingMesh)
	require.True(t, ok)
	require.NoError(t, p.Apply(s))
	assert.Equal(t, !config.DefaultPlotConfig().Mesh, p.Config().Mesh)

	_, ok = ToggleSetting(p.Config(), SettingQuality)
	assert.False(t, ok)
}

func TestParseSettingKind(t *testing.T) {
	kind, err := ParseSettingKind("mesh")
	require.NoError(t, err)
	assert.Equal(t, SettingMesh, kind)
	assert.Equal(t, "mesh", kind.String())

	_, err = ParseSettingKind("colour")
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestPlot_EvaluatePadsRange(t *testing.T) {
	p, _ := newTestPlot(t, "x")
	p.SetRight(1)
	p.SetLeft(-1)

	eval, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1.0, eval.Min)
	assert.Equal(t, 1.0, eval.Max)
	assert.InDelta(t, -1.02, eval.PaddedMin, 1e-12)
	assert.InDelta(t, 1.02, eval.PaddedMax, 1e-12)
	assert.Len(t, eval.Grid, config.DefaultQuality)
}

func TestPlot_EvaluateAllNonFiniteFallsBack(t *testing.T) {
	p, _ := newTestPlot(t, "0 / 0")

	eval, err := p.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1.0, eval.Min)
	assert.Equal(t, 1.0, eval.Max)
	assert.Equal(t, config.DefaultQuality, eval.NonFinite())
}

func TestPlot_EvaluateCancelled(t *testing.T) {
	p, _ := newTestPlot(t, "x", "x^2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Evaluate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlot_ConfigRoundTripsEntries(t *testing.T) {
	p, _ := newTestPlot(t, "x", "[(0, 1)]")
	_, err := p.ToggleFunction(p.Functions()[1].ID)
	require.NoError(t, err)

	cfg := p.Config()
	assert.Equal(t, []config.FunctionConfig{
		{Source: "x", Shown: true},
		{Source: "[(0, 1)]", Shown: false},
	}, cfg.Functions)
	require.NoError(t, cfg.Validate())

	again := NewPlot(cfg, nil)
	assert.Equal(t, cfg, again.Config())
}

func TestParseSetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    Setting
		wantErr bool
	}{
		{"quality", "200", Quality(200), false},
		{"mesh", "false", Mesh(false), false},
		{"title_string", "hello world", TitleString("hello world"), false},
		{"interpolation", "linear", Interpolation("linear"), false},
		{"canvas_height", "40", CanvasHeight(40), false},
		{"quality", "lots", Setting{}, true},
		{"x_axis", "maybe", Setting{}, true},
		{"colour", "red", Setting{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := ParseSetting(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSetting)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
