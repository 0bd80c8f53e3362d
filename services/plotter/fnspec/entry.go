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
	"github.com/google/uuid"
)

// FunctionEntry pairs a parsed spec with the text it came from and a
// visibility flag.
//
// Source and Spec always agree: every mutation replaces both or neither.
type FunctionEntry struct {
	ID     string
	Source string
	Spec   FunctionSpec
	Shown  bool
}

// DefaultEntry returns a shown entry for DefaultSource with a fresh ID.
func DefaultEntry() *FunctionEntry {
	return &FunctionEntry{
		ID:     uuid.NewString(),
		Source: DefaultSource,
		Spec:   DefaultSpec(),
		Shown:  true,
	}
}

// NewEntry parses source into a new shown entry.
func NewEntry(source string, opts ...Option) (*FunctionEntry, error) {
	spec, err := ParseWith(source, opts...)
	if err != nil {
		return nil, err
	}
	return &FunctionEntry{
		ID:     uuid.NewString(),
		Source: source,
		Spec:   spec,
		Shown:  true,
	}, nil
}

// Toggle flips the visibility flag and returns the entry.
func (e *FunctionEntry) Toggle() *FunctionEntry {
	e.Shown = !e.Shown
	return e
}

// SetSpec replaces source and spec together. spec must be the parse of source.
func (e *FunctionEntry) SetSpec(source string, spec FunctionSpec) *FunctionEntry {
	e.Source = source
	e.Spec = spec
	return e
}

// Update re-parses the entry from raw. On error the entry is left unchanged.
func (e *FunctionEntry) Update(raw string, opts ...Option) error {
	spec, err := ParseWith(raw, opts...)
	if err != nil {
		return err
	}
	e.Source = raw
	e.Spec = spec
	return nil
}

// Reset restores the default source and spec, keeping ID and visibility.
func (e *FunctionEntry) Reset() *FunctionEntry {
	e.Source = DefaultSource
	e.Spec = DefaultSpec()
	return e
}
