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
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// Key is one control point of a Spline.
type Key struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Interpolation names the rule used between two consecutive keys.
//
// Cosine, Linear and Step compute the blend weight in float64. The eased
// modes ("in-quad", "out-bounce", ...) use gween curves, which work in
// float32, so eased samples between keys carry about 7 significant digits.
// Samples at the keys themselves are exact in every mode.
type Interpolation string

const (
	// Cosine blends keys with the weight (1 - cos(pi*u)) / 2. Default mode.
	Cosine Interpolation = "cosine"

	// Linear blends keys with the weight u.
	Linear Interpolation = "linear"

	// Step holds the value of the left key until the next key.
	Step Interpolation = "step"
)

// easings maps eased interpolation names to gween easing functions.
var easings = map[Interpolation]ease.TweenFunc{
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
	"in-out-elastic": ease.InOutElastic,
}

// ParseInterpolation resolves an interpolation mode name. Names are case
// insensitive; the empty name selects Cosine.
func ParseInterpolation(name string) (Interpolation, error) {
	mode := Interpolation(strings.ToLower(strings.TrimSpace(name)))
	switch mode {
	case "":
		return Cosine, nil
	case Cosine, Linear, Step:
		return mode, nil
	}
	if _, ok := easings[mode]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterpolation, name)
}

// Interpolations returns every supported mode name, sorted.
func Interpolations() []string {
	names := []string{string(Cosine), string(Linear), string(Step)}
	for mode := range easings {
		names = append(names, string(mode))
	}
	sort.Strings(names)
	return names
}

// weight maps the position u in [0, 1) within a segment to the blend factor
// of the right key.
func (m Interpolation) weight(u float64) float64 {
	switch m {
	case Cosine, "":
		return (1 - math.Cos(u*math.Pi)) / 2
	case Linear:
		return u
	case Step:
		return 0
	}
	if fn, ok := easings[m]; ok {
		return float64(fn(float32(u), 0, 1, 1))
	}
	return (1 - math.Cos(u*math.Pi)) / 2
}

// Spline is a piecewise interpolant over keys sorted by X.
//
// Sample clamps outside [first.X, last.X] to the boundary key values and
// reproduces every key exactly.
type Spline struct {
	keys []Key
	mode Interpolation
}

// NewSpline builds a spline from keys in any order.
//
// Keys are copied and stably sorted by X, so keys sharing an X keep their
// input order. An empty key list is rejected.
func NewSpline(keys []Key, mode Interpolation) (*Spline, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for _, k := range keys {
		if math.IsNaN(k.X) || math.IsInf(k.X, 0) || math.IsNaN(k.Y) || math.IsInf(k.Y, 0) {
			return nil, fmt.Errorf("%w: (%v, %v)", ErrNonFiniteKey, k.X, k.Y)
		}
	}
	if mode == "" {
		mode = Cosine
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Key) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		default:
			return 0
		}
	})
	return &Spline{keys: sorted, mode: mode}, nil
}

// Sample evaluates the spline at t, clamped to the key range. NaN yields NaN.
func (s *Spline) Sample(t float64) float64 {
	if math.IsNaN(t) {
		return t
	}
	first, last := s.keys[0], s.keys[len(s.keys)-1]
	if t <= first.X {
		return first.Y
	}
	if t >= last.X {
		return last.Y
	}

	// first key strictly right of t; 0 < i < len(keys) because of the clamps
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i].X > t })
	left, right := s.keys[i-1], s.keys[i]
	if t == left.X {
		return left.Y
	}
	w := s.mode.weight((t - left.X) / (right.X - left.X))
	return left.Y*(1-w) + right.Y*w
}

// Keys returns a copy of the sorted keys.
func (s *Spline) Keys() []Key {
	return slices.Clone(s.keys)
}

// Interpolation returns the interpolation mode.
func (s *Spline) Interpolation() Interpolation {
	return s.mode
}

// Domain returns the X range covered by keys.
func (s *Spline) Domain() (lo, hi float64) {
	return s.keys[0].X, s.keys[len(s.keys)-1].X
}

// String renders the keys in the point list format.
func (s *Spline) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %s)", formatFloat(k.X), formatFloat(k.Y))
	}
	b.WriteByte(']')
	return b.String()
}
