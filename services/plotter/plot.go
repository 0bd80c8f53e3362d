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
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/fnplot/pkg/telemetry"
	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/evaluate"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

const tracerName = "fnplot.plotter"

// DefaultMaxFunctions caps the entries of one plot.
const DefaultMaxFunctions = 32

// FunctionInfo is a read-only view of one entry.
type FunctionInfo struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Shown  bool   `json:"shown"`
}

// Evaluation is a Result together with its grid and padded y-range.
type Evaluation struct {
	Grid []float64 `json:"grid"`
	evaluate.Result
	PaddedMin float64 `json:"padded_min"`
	PaddedMax float64 `json:"padded_max"`
}

// Plot is the live state of one plot: display settings, domain, and the
// ordered function entries.
//
// Thread Safety: Plot is safe for concurrent use.
type Plot struct {
	id           string
	cfg          config.PlotConfig
	entries      []*fnspec.FunctionEntry
	logger       *slog.Logger
	evaluator    *evaluate.Evaluator
	metrics      *telemetry.Metrics
	maxFunctions int
	updatedAt    time.Time

	mu sync.RWMutex
}

// PlotOption configures NewPlot.
type PlotOption func(*Plot)

// WithPlotID sets the plot ID instead of generating one.
func WithPlotID(id string) PlotOption {
	return func(p *Plot) { p.id = id }
}

// WithEvaluator sets the evaluator used by Evaluate.
func WithEvaluator(e *evaluate.Evaluator) PlotOption {
	return func(p *Plot) { p.evaluator = e }
}

// WithMetrics records parse, fallback, and evaluation metrics.
func WithMetrics(m *telemetry.Metrics) PlotOption {
	return func(p *Plot) { p.metrics = m }
}

// WithMaxFunctions caps the number of entries AddFunction will allow.
func WithMaxFunctions(n int) PlotOption {
	return func(p *Plot) { p.maxFunctions = n }
}

// NewPlot builds a plot from cfg.
//
// Description:
//
//	Every configured source is parsed with the configured interpolation.
//	A source that does not parse is replaced by the default function, with
//	an error and a warning logged; its visibility flag is kept. cfg is
//	expected to be valid (see config.PlotConfig.Validate).
//
// Inputs:
//
//	cfg - Plot settings and function sources.
//	logger - Destination for fallback logs. Nil uses slog.Default().
//	opts - Optional overrides.
//
// Outputs:
//
//	*Plot - Ready to use.
func NewPlot(cfg config.PlotConfig, logger *slog.Logger, opts ...PlotOption) *Plot {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Plot{
		cfg:          cfg.Clone(),
		logger:       logger,
		maxFunctions: DefaultMaxFunctions,
		updatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}
	if p.evaluator == nil {
		p.evaluator = evaluate.NewEvaluator()
	}
	p.logger = p.logger.With("plot_id", p.id)

	ctx := context.Background()
	mode := p.cfg.InterpolationMode()
	p.entries = make([]*fnspec.FunctionEntry, 0, len(cfg.Functions))
	for _, fc := range cfg.Functions {
		entry, err := fnspec.NewEntry(fc.Source, fnspec.WithInterpolation(mode))
		if err != nil {
			p.recordParse(ctx, nil, err)
			entry = fnspec.DefaultEntry()
			p.logFallback(ctx, entry.ID, fc.Source, err)
		} else {
			p.recordParse(ctx, entry.Spec, nil)
		}
		entry.Shown = fc.Shown
		p.entries = append(p.entries, entry)
	}
	p.cfg.Functions = nil
	return p
}

// ID returns the plot ID.
func (p *Plot) ID() string { return p.id }

// UpdatedAt returns the time of the last mutation.
func (p *Plot) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// Functions returns the entries in display order.
func (p *Plot) Functions() []FunctionInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]FunctionInfo, len(p.entries))
	for i, e := range p.entries {
		out[i] = info(e)
	}
	return out
}

// Function returns one entry.
func (p *Plot) Function(id string) (FunctionInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, e, err := p.find(id)
	if err != nil {
		return FunctionInfo{}, err
	}
	return info(e), nil
}

// SetFunction re-parses the entry id from raw.
//
// Description:
//
//	On success the entry takes raw as its source. When raw does not parse,
//	the entry is reset to the default function, an error and a warning are
//	logged, and the *fnspec.FormatError is returned so the caller can show
//	a diagnostic. Visibility is unchanged either way.
//
// Outputs:
//
//	FunctionInfo - The entry after the update or fallback.
//	error - ErrFunctionNotFound or a *fnspec.FormatError.
func (p *Plot) SetFunction(id, raw string) (FunctionInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, e, err := p.find(id)
	if err != nil {
		return FunctionInfo{}, err
	}

	ctx := context.Background()
	spec, err := fnspec.ParseWith(raw, fnspec.WithInterpolation(p.cfg.InterpolationMode()))
	p.recordParse(ctx, spec, err)
	p.touch()
	if err != nil {
		e.Reset()
		p.logFallback(ctx, e.ID, raw, err)
		return info(e), err
	}
	e.SetSpec(raw, spec)
	return info(e), nil
}

// AddFunction appends a shown default entry.
func (p *Plot) AddFunction() (FunctionInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxFunctions > 0 && len(p.entries) >= p.maxFunctions {
		return FunctionInfo{}, fmt.Errorf("%w: limit is %d", ErrTooManyFunctions, p.maxFunctions)
	}
	e := fnspec.DefaultEntry()
	p.entries = append(p.entries, e)
	p.touch()
	return info(e), nil
}

// RemoveFunction deletes the entry id.
func (p *Plot) RemoveFunction(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, _, err := p.find(id)
	if err != nil {
		return err
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	p.touch()
	return nil
}

// ToggleFunction flips the visibility of entry id and returns the new value.
func (p *Plot) ToggleFunction(id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, e, err := p.find(id)
	if err != nil {
		return false, err
	}
	p.touch()
	return e.Toggle().Shown, nil
}

// Domain returns the current x-domain.
func (p *Plot) Domain() config.Domain {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Domain
}

// SetLeft moves the left bound to min(v, right) and returns the new domain.
func (p *Plot) SetLeft(v float64) config.Domain {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Domain.Left = math.Min(v, p.cfg.Domain.Right)
	p.touch()
	return p.cfg.Domain
}

// SetRight moves the right bound to max(v, left) and returns the new domain.
func (p *Plot) SetRight(v float64) config.Domain {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Domain.Right = math.Max(v, p.cfg.Domain.Left)
	p.touch()
	return p.cfg.Domain
}

// SetDomain sets whichever bounds are non-nil.
//
// When both are given they must be finite with left <= right, and the
// result is exactly [left, right]. A single bound is applied with SetLeft
// or SetRight semantics.
func (p *Plot) SetDomain(left, right *float64) (config.Domain, error) {
	for _, v := range []*float64{left, right} {
		if v != nil && !evaluate.IsFinite(*v) {
			return p.Domain(), fmt.Errorf("%w: bound %v is not finite", ErrInvalidDomain, *v)
		}
	}

	switch {
	case left != nil && right != nil:
		if *left > *right {
			return p.Domain(), fmt.Errorf("%w: left %v > right %v", ErrInvalidDomain, *left, *right)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.cfg.Domain = config.Domain{Left: *left, Right: *right}
		p.touch()
		return p.cfg.Domain, nil
	case left != nil:
		return p.SetLeft(*left), nil
	case right != nil:
		return p.SetRight(*right), nil
	default:
		return p.Domain(), nil
	}
}

// Apply changes display settings. All settings are applied or none: the
// candidate config is validated before it replaces the current one.
//
// Changing the interpolation re-parses every point-list entry with the new
// mode.
func (p *Plot) Apply(settings ...Setting) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidate := p.cfg.Clone()
	for _, s := range settings {
		if err := s.applyTo(&candidate); err != nil {
			return err
		}
	}
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	modeChanged := candidate.InterpolationMode() != p.cfg.InterpolationMode()
	p.cfg = candidate
	p.touch()

	if modeChanged {
		mode := p.cfg.InterpolationMode()
		for _, e := range p.entries {
			if e.Spec == nil || e.Spec.Kind() != fnspec.KindInterpolated {
				continue
			}
			if err := e.Update(e.Source, fnspec.WithInterpolation(mode)); err != nil {
				p.logger.Error("Failed to re-parse point list", "entry_id", e.ID, "error", err)
			}
		}
		p.logger.Debug("Interpolation changed", "interpolation", string(mode))
	}
	return nil
}

// Config returns a snapshot of the plot as a persistable config, with the
// current entries as its functions.
func (p *Plot) Config() config.PlotConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cfg := p.cfg.Clone()
	cfg.Functions = make([]config.FunctionConfig, len(p.entries))
	for i, e := range p.entries {
		cfg.Functions[i] = config.FunctionConfig{Source: e.Source, Shown: e.Shown}
	}
	return cfg
}

// Grid returns the sample points for the current domain and quality.
func (p *Plot) Grid() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.grid()
}

func (p *Plot) grid() []float64 {
	return evaluate.Grid(evaluate.Domain{Left: p.cfg.Domain.Left, Right: p.cfg.Domain.Right}, p.cfg.Quality)
}

// Evaluate samples every shown entry over the current grid.
//
// Outputs:
//
//	Evaluation - Grid, series, the y-range, and the range padded by
//	evaluate.DefaultPadding.
//	error - Non-nil only if ctx is cancelled.
func (p *Plot) Evaluate(ctx context.Context) (Evaluation, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Plot.Evaluate",
		trace.WithAttributes(attribute.String("plot_id", p.id)),
	)
	defer span.End()

	p.mu.RLock()
	defer p.mu.RUnlock()

	start := time.Now()
	grid := p.grid()
	result, err := p.evaluator.Evaluate(ctx, p.entries, grid)
	if err != nil {
		telemetry.RecordError(span, err)
		return Evaluation{}, err
	}

	nonFinite := result.NonFinite()
	p.metrics.RecordEvaluation(ctx, time.Since(start).Seconds(), len(result.Series), len(grid)*len(result.Series), nonFinite)
	span.SetAttributes(
		attribute.Int("series", len(result.Series)),
		attribute.Int("grid_points", len(grid)),
		attribute.Int("non_finite", nonFinite),
	)

	telemetry.SetSpanOK(span)
	lo, hi := result.Padded(evaluate.DefaultPadding)
	return Evaluation{Grid: grid, Result: result, PaddedMin: lo, PaddedMax: hi}, nil
}

func (p *Plot) find(id string) (int, *fnspec.FunctionEntry, error) {
	for i, e := range p.entries {
		if e.ID == id {
			return i, e, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, id)
}

func (p *Plot) touch() {
	p.updatedAt = time.Now()
}

func (p *Plot) recordParse(ctx context.Context, spec fnspec.FunctionSpec, err error) {
	kind := ""
	if spec != nil {
		kind = spec.Kind().String()
	}
	p.metrics.RecordParse(ctx, kind, err)
}

func (p *Plot) logFallback(ctx context.Context, entryID, source string, err error) {
	p.logger.Error("Failed to parse function input", "entry_id", entryID, "source", source, "error", err)
	p.logger.Warn("Falling back to default function", "entry_id", entryID, "default", fnspec.DefaultSource)
	p.metrics.RecordFallback(ctx)
}

func info(e *fnspec.FunctionEntry) FunctionInfo {
	kind := "unknown"
	if e.Spec != nil {
		kind = e.Spec.Kind().String()
	}
	return FunctionInfo{
		ID:     e.ID,
		Source: e.Source,
		Kind:   kind,
		Shown:  e.Shown,
	}
}
