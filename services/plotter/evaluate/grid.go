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

// Domain is the closed x-interval a grid spans.
type Domain struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
}

// Width returns Right - Left.
func (d Domain) Width() float64 { return d.Right - d.Left }

// Linspace returns n evenly spaced values from left to right inclusive.
//
// n <= 0 yields an empty slice and n == 1 yields [left]. The last value is
// exactly right.
func Linspace(left, right float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	xs := make([]float64, n)
	xs[0] = left
	if n == 1 {
		return xs
	}
	step := (right - left) / float64(n-1)
	for i := 1; i < n-1; i++ {
		xs[i] = left + float64(i)*step
	}
	xs[n-1] = right
	return xs
}

// Grid returns quality sample points across domain.
func Grid(domain Domain, quality int) []float64 {
	return Linspace(domain.Left, domain.Right, quality)
}
