// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fnspec

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultSource is the definition used for new entries and as the fallback
// after a failed parse.
const DefaultSource = "sin(x)"

// Kind identifies the active variant of a FunctionSpec.
type Kind int

const (
	// KindAnalytical is a symbolic expression in one free variable.
	KindAnalytical Kind = iota

	// KindInterpolated is a spline through literal key points.
	KindInterpolated
)

// String returns "analytical", "interpolated" or "unknown".
func (k Kind) String() string {
	switch k {
	case KindAnalytical:
		return "analytical"
	case KindInterpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// FunctionSpec is a parsed function definition ready for repeated evaluation.
//
// The concrete type is either *Analytical or *Interpolated. Values are
// immutable.
type FunctionSpec interface {
	// Kind reports the active variant.
	Kind() Kind

	// Eval returns the function value at x. Non-finite results are returned
	// as-is.
	Eval(x float64) float64

	// String renders the spec in a form Parse accepts.
	String() string

	isFunctionSpec()
}

// Analytical is a FunctionSpec backed by an expression tree.
type Analytical struct {
	expr     Expr
	variable string
}

// Kind implements FunctionSpec.
func (a *Analytical) Kind() Kind { return KindAnalytical }

// Eval substitutes x for the free variable and evaluates the expression.
func (a *Analytical) Eval(x float64) float64 { return a.expr.Eval(x) }

// String renders the expression fully parenthesized.
func (a *Analytical) String() string { return a.expr.String() }

// Expression returns the expression tree.
func (a *Analytical) Expression() Expr { return a.expr }

// Variable returns the free variable name, or "" for a constant expression.
func (a *Analytical) Variable() string { return a.variable }

func (a *Analytical) isFunctionSpec() {}

// Interpolated is a FunctionSpec backed by a Spline.
type Interpolated struct {
	spline *Spline
}

// Kind implements FunctionSpec.
func (p *Interpolated) Kind() Kind { return KindInterpolated }

// Eval samples the spline at x, clamped to the key range.
func (p *Interpolated) Eval(x float64) float64 { return p.spline.Sample(x) }

// String renders the keys as a point list.
func (p *Interpolated) String() string { return p.spline.String() }

// Spline returns the underlying spline.
func (p *Interpolated) Spline() *Spline { return p.spline }

func (p *Interpolated) isFunctionSpec() {}

// Option configures ParseWith.
type Option func(*parseOptions)

type parseOptions struct {
	interpolation Interpolation
}

// WithInterpolation selects the interpolation mode used for point lists.
func WithInterpolation(mode Interpolation) Option {
	return func(o *parseOptions) {
		o.interpolation = mode
	}
}

// stage is one format tried by ParseWith. A stage either returns a complete
// spec or an error meaning "try the next format"; it never touches shared
// state.
type stage struct {
	name  string
	parse func(raw string, opts parseOptions) (FunctionSpec, error)
}

var stages = []stage{
	{name: "analytical", parse: parseAnalytical},
	{name: "points", parse: parsePoints},
}

// Parse classifies raw as an analytical expression or a point list.
//
// The expression grammar is tried first; the point list only if that fails.
// When neither accepts the input the result is a *FormatError carrying raw.
// Parse never returns a partially built spec.
func Parse(raw string) (FunctionSpec, error) {
	return ParseWith(raw)
}

// ParseWith is Parse with options.
func ParseWith(raw string, opts ...Option) (FunctionSpec, error) {
	o := parseOptions{interpolation: Cosine}
	for _, opt := range opts {
		opt(&o)
	}

	causes := make([]error, 0, len(stages))
	for _, st := range stages {
		spec, err := st.parse(raw, o)
		if err == nil {
			slog.Debug("Classified function input", "kind", spec.Kind().String(), "format", st.name)
			return spec, nil
		}
		causes = append(causes, fmt.Errorf("%s: %w", st.name, err))
	}
	return nil, &FormatError{Input: raw, Causes: causes}
}

// MustParse is Parse that panics on error. Intended for constants.
func MustParse(raw string) FunctionSpec {
	spec, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return spec
}

// DefaultSpec returns the spec of DefaultSource.
func DefaultSpec() FunctionSpec {
	return MustParse(DefaultSource)
}

func parseAnalytical(raw string, _ parseOptions) (FunctionSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}
	tokens, err := tokenize(raw)
	if err != nil {
		return nil, err
	}
	expr, err := buildAST(tokens)
	if err != nil {
		return nil, err
	}

	names := variables(expr)
	if len(names) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrTooManyVariables, strings.Join(names, ", "))
	}
	a := &Analytical{expr: expr}
	if len(names) == 1 {
		a.variable = names[0]
	}
	return a, nil
}

func parsePoints(raw string, opts parseOptions) (FunctionSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}
	keys, err := parsePointList(raw)
	if err != nil {
		return nil, err
	}
	spline, err := NewSpline(keys, opts.interpolation)
	if err != nil {
		return nil, err
	}
	return &Interpolated{spline: spline}, nil
}
