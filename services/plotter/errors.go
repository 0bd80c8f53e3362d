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

import "errors"

// Sentinel errors for the plotter service.
var (
	// ErrPlotNotFound indicates no plot exists with the given ID.
	ErrPlotNotFound = errors.New("plot not found")

	// ErrFunctionNotFound indicates the plot has no entry with the given ID.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrTooManyPlots indicates the service plot limit was reached.
	ErrTooManyPlots = errors.New("too many plots")

	// ErrTooManyFunctions indicates the plot function limit was reached.
	ErrTooManyFunctions = errors.New("too many functions")

	// ErrInvalidDomain indicates a requested domain with left > right or a
	// non-finite bound.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrInvalidSetting indicates a setting outside its allowed range.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrNoStore indicates saving was requested but no store is configured.
	ErrNoStore = errors.New("no config store configured")
)
