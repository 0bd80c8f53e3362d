// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// DefaultPadding widens the y-range by one percent of its height on each
// side.
const DefaultPadding = 0.01

// Series holds the samples of one shown entry, aligned with the grid.
type Series struct {
	EntryID   string    `json:"entry_id"`
	Source    string    `json:"source"`
	Values    []float64 `json:"values"`
	NonFinite int       `json:"non_finite"`
}

// MarshalJSON writes non-finite samples as null, since JSON has no NaN or
// infinity.
func (s Series) MarshalJSON() ([]byte, error) {
	type plain Series
	values := make([]*float64, len(s.Values))
	for i, v := range s.Values {
		if IsFinite(v) {
			values[i] = &s.Values[i]
		}
	}
	return json.Marshal(struct {
		plain
		Values []*float64 `json:"values"`
	}{plain(s), values})
}

// Result is the output of one evaluation pass.
//
// Series follows the order of the shown entries. Min and Max are always
// finite and Min <= Max.
type Result struct {
	Series []Series `json:"series"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
}

// Padded returns the y-range widened by fraction of its height on each side.
// The result stays finite for any finite range.
func (r Result) Padded(fraction float64) (lo, hi float64) {
	delta := r.Max*fraction - r.Min*fraction
	lo = math.Max(r.Min-delta, -math.MaxFloat64)
	hi = math.Min(r.Max+delta, math.MaxFloat64)
	return lo, hi
}

// NonFinite returns the total count of non-finite samples across all series.
func (r Result) NonFinite() int {
	n := 0
	for _, s := range r.Series {
		n += s.NonFinite
	}
	return n
}

// Evaluator samples entries over a grid, optionally in parallel.
type Evaluator struct {
	workers int
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithWorkers sets how many entries are evaluated concurrently. Values
// below 2 keep evaluation sequential.
func WithWorkers(n int) EvaluatorOption {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// NewEvaluator creates an Evaluator. The default is sequential.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var sequential = NewEvaluator()

// Evaluate samples every shown entry over grid sequentially.
//
// Description:
//
//	Hidden entries are skipped. Each shown entry produces one Series with
//	one value per grid point, non-finite values included. The range covers
//	the finite values of all shown entries and falls back to
//	[FallbackMin, FallbackMax] when there are none.
//
// Inputs:
//
//	entries - Entries in display order. Nil entries are skipped.
//	grid - Sample points, usually from Grid.
//
// Outputs:
//
//	Result - Series in entry order plus the y-range.
func Evaluate(entries []*fnspec.FunctionEntry, grid []float64) Result {
	r, _ := sequential.Evaluate(context.Background(), entries, grid)
	return r
}

// EvaluateContext is Evaluate with cancellation between entries.
func EvaluateContext(ctx context.Context, entries []*fnspec.FunctionEntry, grid []float64) (Result, error) {
	return sequential.Evaluate(ctx, entries, grid)
}

// Evaluate samples every shown entry over grid. Nil entries and entries
// without a parsed Spec are skipped.
//
// The result does not depend on the worker count: every entry fills its own
// slot and the range is reduced in entry order once all slots are filled.
// If ctx is cancelled before all entries are sampled the error is ctx.Err()
// and the Result is empty.
func (e *Evaluator) Evaluate(ctx context.Context, entries []*fnspec.FunctionEntry, grid []float64) (Result, error) {
	shown := make([]*fnspec.FunctionEntry, 0, len(entries))
	for _, entry := range entries {
		if entry != nil && entry.Spec != nil && entry.Shown {
			shown = append(shown, entry)
		}
	}

	series := make([]Series, len(shown))
	bounds := make([]Bounds, len(shown))

	if e.workers > 1 && len(shown) > 1 {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i, entry := range shown {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				series[i], bounds[i] = sample(entry, grid)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, fmt.Errorf("evaluate: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("evaluate: %w", err)
		}
	} else {
		for i, entry := range shown {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("evaluate: %w", err)
			}
			series[i], bounds[i] = sample(entry, grid)
		}
	}

	var total Bounds
	for _, b := range bounds {
		total.Merge(b)
	}
	lo, hi := total.Finalize()

	return Result{Series: series, Min: lo, Max: hi}, nil
}

func sample(entry *fnspec.FunctionEntry, grid []float64) (Series, Bounds) {
	s := Series{
		EntryID: entry.ID,
		Source:  entry.Source,
		Values:  make([]float64, len(grid)),
	}
	var b Bounds
	for i, x := range grid {
		y := entry.Spec.Eval(x)
		s.Values[i] = y
		if !b.Observe(y) {
			s.NonFinite++
		}
	}
	return s, b
}
