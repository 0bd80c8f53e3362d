// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package evaluate samples function entries over a grid and computes the
// y-range of everything that is shown.
//
// # Numeric policy
//
// Samples keep their raw value, including NaN and ±Inf, so a caller can
// draw gaps. Only finite samples take part in the range. When no finite
// sample exists the range falls back to FallbackMin and FallbackMax.
//
// # Usage
//
//	grid := evaluate.Grid(evaluate.Domain{Left: -3.14, Right: 3.14}, 100)
//	result := evaluate.Evaluate(entries, grid)
//	lo, hi := result.Padded(evaluate.DefaultPadding)
//
// # Thread Safety
//
// Evaluate and Evaluator are safe for concurrent use. Entries must not be
// mutated while an evaluation is running.
package evaluate
