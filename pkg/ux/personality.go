// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines the richness of CLI output
type PersonalityLevel string

const (
	// PersonalityFull enables colors, icons, and boxes
	PersonalityFull PersonalityLevel = "full"

	// PersonalityMinimal uses icons and plain text only
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine outputs JSON and plain text suitable for scripting
	PersonalityMachine PersonalityLevel = "machine"
)

// PersonalityEnv overrides terminal detection.
const PersonalityEnv = "FNPLOT_PERSONALITY"

// ParsePersonalityLevel converts a string to PersonalityLevel
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "f":
		return PersonalityFull
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "json", "quiet", "q":
		return PersonalityMachine
	default:
		return PersonalityFull
	}
}

// ResolveLevel returns the level named by PersonalityEnv, or DetectLevel(w)
// when the variable is unset.
func ResolveLevel(w io.Writer) PersonalityLevel {
	if envLevel := os.Getenv(PersonalityEnv); envLevel != "" {
		return ParsePersonalityLevel(envLevel)
	}
	return DetectLevel(w)
}

// DetectLevel returns PersonalityFull when w is a terminal and
// PersonalityMachine otherwise.
func DetectLevel(w io.Writer) PersonalityLevel {
	if IsTerminal(w) {
		return PersonalityFull
	}
	return PersonalityMachine
}

// IsTerminal reports whether w is a terminal, including Cygwin/MSYS ptys.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
