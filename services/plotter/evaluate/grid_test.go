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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		n           int
		want        []float64
	}{
		{"zero", 0, 1, 0, []float64{}},
		{"negative", 0, 1, -3, []float64{}},
		{"one", 2, 5, 1, []float64{2}},
		{"two", -1, 1, 2, []float64{-1, 1}},
		{"five", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"degenerate", 3, 3, 3, []float64{3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Linspace(tt.left, tt.right, tt.n))
		})
	}
}

func TestLinspace_EndpointsAreExact(t *testing.T) {
	xs := Linspace(-3.14, 3.14, 100)
	assert.Len(t, xs, 100)
	assert.Equal(t, -3.14, xs[0])
	assert.Equal(t, 3.14, xs[99])
	assert.IsIncreasing(t, xs)
}

func TestGrid(t *testing.T) {
	d := Domain{Left: -1, Right: 1}
	assert.Equal(t, Linspace(-1, 1, 3), Grid(d, 3))
	assert.Equal(t, 2.0, d.Width())
}
