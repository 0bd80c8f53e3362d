// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command fnplot parses, evaluates and serves function plots.
//
// Usage:
//
//	fnplot parse "sin(x) * x"
//	fnplot eval "x^2" "[(0, 1), (2, 3)]" --left -2 --right 2 --samples 5
//	fnplot config init
//	fnplot config set-function 1 "cos(x)"
//	fnplot watch
//	fnplot serve --port 8080
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(CLIExitError)
	}
}
