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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEntry(t *testing.T) {
	e := DefaultEntry()

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, DefaultSource, e.Source)
	assert.True(t, e.Shown)
	assert.Equal(t, KindAnalytical, e.Spec.Kind())
	assert.NotEqual(t, e.ID, DefaultEntry().ID)
}

func TestFunctionEntry_Toggle(t *testing.T) {
	e := DefaultEntry()
	before := e.Shown

	assert.Equal(t, !before, e.Toggle().Shown)
	assert.Equal(t, before, e.Toggle().Shown)
}

func TestFunctionEntry_Update(t *testing.T) {
	e := DefaultEntry()

	require.NoError(t, e.Update("[(0, 2), (1, 3.5)]"))
	assert.Equal(t, "[(0, 2), (1, 3.5)]", e.Source)
	assert.Equal(t, KindInterpolated, e.Spec.Kind())
}

func TestFunctionEntry_UpdateFailureLeavesEntryUntouched(t *testing.T) {
	e, err := NewEntry("x^2")
	require.NoError(t, err)
	id, source, spec, shown := e.ID, e.Source, e.Spec, e.Shown

	err = e.Update("not a function @@@")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)

	assert.Equal(t, id, e.ID)
	assert.Equal(t, source, e.Source)
	assert.Same(t, spec, e.Spec)
	assert.Equal(t, shown, e.Shown)
	assert.Equal(t, 9.0, e.Spec.Eval(3))
}

func TestFunctionEntry_Reset(t *testing.T) {
	e, err := NewEntry("[(0, 1)]")
	require.NoError(t, err)
	e.Toggle()
	id := e.ID

	e.Reset()
	assert.Equal(t, id, e.ID)
	assert.Equal(t, DefaultSource, e.Source)
	assert.Equal(t, KindAnalytical, e.Spec.Kind())
	assert.False(t, e.Shown)
}

func TestNewEntry_Invalid(t *testing.T) {
	e, err := NewEntry("@@@")
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrFormat)
}
