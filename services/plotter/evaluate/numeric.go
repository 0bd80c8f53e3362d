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

import "math"

const (
	// FallbackMin is the lower bound used when no finite sample exists.
	FallbackMin = -1.0

	// FallbackMax is the upper bound used when no finite sample exists.
	FallbackMax = 1.0
)

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Bounds accumulates the min and max of the finite values it observes.
//
// The zero value is ready to use and holds no observations.
type Bounds struct {
	min, max float64
	seen     bool
}

// Observe folds v into the bounds. It returns false, and leaves the bounds
// unchanged, when v is not finite.
func (b *Bounds) Observe(v float64) bool {
	if !IsFinite(v) {
		return false
	}
	if !b.seen {
		b.min, b.max, b.seen = v, v, true
		return true
	}
	b.min = math.Min(b.min, v)
	b.max = math.Max(b.max, v)
	return true
}

// Merge folds the observations of other into b.
func (b *Bounds) Merge(other Bounds) {
	if !other.seen {
		return
	}
	b.Observe(other.min)
	b.Observe(other.max)
}

// Empty reports whether no finite value was observed.
func (b Bounds) Empty() bool { return !b.seen }

// Finalize returns the observed range, substituting FallbackMin and
// FallbackMax when nothing finite was observed.
func (b Bounds) Finalize() (lo, hi float64) {
	if !b.seen {
		return FallbackMin, FallbackMax
	}
	return b.min, b.max
}
