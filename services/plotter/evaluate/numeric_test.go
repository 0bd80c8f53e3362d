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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-math.MaxFloat64))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestBounds(t *testing.T) {
	var b Bounds
	assert.True(t, b.Empty())
	lo, hi := b.Finalize()
	assert.Equal(t, FallbackMin, lo)
	assert.Equal(t, FallbackMax, hi)

	assert.False(t, b.Observe(math.NaN()))
	assert.False(t, b.Observe(math.Inf(-1)))
	assert.True(t, b.Empty())

	assert.True(t, b.Observe(3))
	assert.True(t, b.Observe(-2))
	assert.True(t, b.Observe(1))
	lo, hi = b.Finalize()
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestBounds_SingleValueIsNotReplaced(t *testing.T) {
	var b Bounds
	b.Observe(5)
	lo, hi := b.Finalize()
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 5.0, hi)
}

func TestBounds_Merge(t *testing.T) {
	var a, b, empty Bounds
	a.Observe(1)
	a.Observe(2)
	b.Observe(-4)

	a.Merge(empty)
	lo, hi := a.Finalize()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 2.0, hi)

	a.Merge(b)
	lo, hi = a.Finalize()
	assert.Equal(t, -4.0, lo)
	assert.Equal(t, 2.0, hi)
}
