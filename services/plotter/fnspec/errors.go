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
	"errors"
	"fmt"
)

// Sentinel errors for function parsing.
var (
	// ErrFormat indicates the input is neither an analytical expression nor a
	// point list. Every *FormatError matches it with errors.Is.
	ErrFormat = errors.New("input is neither an analytical function nor a collection of points")

	// ErrEmptyInput indicates the input contained nothing to parse.
	ErrEmptyInput = errors.New("empty input")

	// ErrTooManyVariables indicates an expression used more than one free variable.
	ErrTooManyVariables = errors.New("expression has more than one free variable")

	// ErrNoKeys indicates a point list without any points.
	ErrNoKeys = errors.New("point list has no points")

	// ErrNonFiniteKey indicates a point list containing NaN or infinite coordinates.
	ErrNonFiniteKey = errors.New("point coordinates must be finite")

	// ErrUnknownInterpolation indicates an interpolation mode name that is not supported.
	ErrUnknownInterpolation = errors.New("unknown interpolation mode")
)

// FormatError is returned by Parse when no format accepts the input.
//
// Input holds the original text for diagnostics. Causes holds the rejection
// reason of each format tried, in order.
type FormatError struct {
	Input  string
	Causes []error
}

// Error implements error.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrFormat.Error(), e.Input)
}

// Unwrap exposes ErrFormat and the per-format causes to errors.Is/As.
func (e *FormatError) Unwrap() []error {
	errs := make([]error, 0, len(e.Causes)+1)
	errs = append(errs, ErrFormat)
	return append(errs, e.Causes...)
}
