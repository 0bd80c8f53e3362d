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
	"bytes"
	"testing"
)

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		input string
		want  PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"F", PersonalityFull},
		{"minimal", PersonalityMinimal},
		{"min", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"json", PersonalityMachine},
		{" q ", PersonalityMachine},
		{"unknown", PersonalityFull},
		{"", PersonalityFull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePersonalityLevel(tt.input); got != tt.want {
				t.Errorf("ParsePersonalityLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectLevel_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := DetectLevel(&buf); got != PersonalityMachine {
		t.Errorf("expected machine level for a buffer, got %q", got)
	}
	if IsTerminal(&buf) {
		t.Error("expected a buffer not to be a terminal")
	}
}

func TestResolveLevel(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv(PersonalityEnv, "minimal")
	if got := ResolveLevel(&buf); got != PersonalityMinimal {
		t.Errorf("expected minimal from env, got %q", got)
	}

	t.Setenv(PersonalityEnv, "")
	if got := ResolveLevel(&buf); got != PersonalityMachine {
		t.Errorf("expected machine for a non-terminal, got %q", got)
	}
}
