// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fnspec classifies and parses function definitions typed by a user.
//
// A definition is either an analytical expression in one free variable
// ("sin(x)", "x^2 - 3*x") or a literal list of key points
// ("[(0, 2), (1, 3.5)]"). Parse tries the two formats in that order and
// returns the first that succeeds:
//
//	spec, err := fnspec.Parse("[(0, 2), (1, 3.5)]")
//	if err != nil {
//	    var fe *fnspec.FormatError
//	    if errors.As(err, &fe) {
//	        // fe.Input holds the rejected text
//	    }
//	    spec = fnspec.DefaultSpec()
//	}
//	y := spec.Eval(0.5)
//
// # Evaluation
//
// Both variants evaluate with plain float64 semantics. Division by zero and
// out-of-domain calls produce NaN or ±Inf instead of errors; callers decide
// what to do with non-finite samples.
//
// Point lists become a Spline that interpolates between keys (cosine
// weighted by default) and clamps to the boundary keys outside their range.
//
// # Thread Safety
//
// FunctionSpec values are immutable after Parse returns and may be shared
// between goroutines. FunctionEntry is a plain record and is not
// synchronized; owners guard it.
package fnspec
