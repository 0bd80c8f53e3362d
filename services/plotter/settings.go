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

import (
	"fmt"
	"strconv"

	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// SettingKind identifies which display setting a Setting changes.
type SettingKind int

const (
	SettingTitleString SettingKind = iota
	SettingMesh
	SettingXAxis
	SettingYAxis
	SettingTitle
	SettingQuality
	SettingCanvasWidth
	SettingCanvasHeight
	SettingInterpolation
)

var settingNames = map[SettingKind]string{
	SettingTitleString:   "title_string",
	SettingMesh:          "mesh",
	SettingXAxis:         "x_axis",
	SettingYAxis:         "y_axis",
	SettingTitle:         "title",
	SettingQuality:       "quality",
	SettingCanvasWidth:   "canvas_width",
	SettingCanvasHeight:  "canvas_height",
	SettingInterpolation: "interpolation",
}

// String returns the config key the setting writes.
func (k SettingKind) String() string {
	if name, ok := settingNames[k]; ok {
		return name
	}
	return "unknown"
}

// Setting is one change to a plot's display settings. Build it with the
// constructors below.
type Setting struct {
	Kind   SettingKind
	Text   string
	Flag   bool
	Number int
}

func TitleString(s string) Setting { return Setting{Kind: SettingTitleString, Text: s} }
func Mesh(on bool) Setting { return Setting{Kind: SettingMesh, Flag: on} }
func XAxis(on bool) Setting { return Setting{Kind: SettingXAxis, Flag: on} }
func YAxis(on bool) Setting { return Setting{Kind: SettingYAxis, Flag: on} }
func TitleShown(on bool) Setting { return Setting{Kind: SettingTitle, Flag: on} }
func Quality(n int) Setting { return Setting{Kind: SettingQuality, Number: n} }
func CanvasWidth(n int) Setting { return Setting{Kind: SettingCanvasWidth, Number: n} }
func CanvasHeight(n int) Setting { return Setting{Kind: SettingCanvasHeight, Number: n} }
func Interpolation(mode string) Setting {
	return Setting{Kind: SettingInterpolation, Text: mode}
}

// ToggleSetting returns the Setting that flips the boolean named by kind
// in cfg. ok is false for non-boolean kinds.
func ToggleSetting(cfg config.PlotConfig, kind SettingKind) (Setting, bool) {
	switch kind {
	case SettingMesh:
		return Mesh(!cfg.Mesh), true
	case SettingXAxis:
		return XAxis(!cfg.XAxis), true
	case SettingYAxis:
		return YAxis(!cfg.YAxis), true
	case SettingTitle:
		return TitleShown(!cfg.Title), true
	default:
		return Setting{}, false
	}
}

// ParseSettingKind maps a config key such as "mesh" to its kind.
func ParseSettingKind(name string) (SettingKind, error) {
	for kind, n := range settingNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown setting %q", ErrInvalidSetting, name)
}

// ParseSetting builds the Setting named by key from its text value, e.g.
// ("quality", "200") or ("mesh", "false").
func ParseSetting(key, value string) (Setting, error) {
	kind, err := ParseSettingKind(key)
	if err != nil {
		return Setting{}, err
	}
	switch kind {
	case SettingTitleString, SettingInterpolation:
		return Setting{Kind: kind, Text: value}, nil
	case SettingMesh, SettingXAxis, SettingYAxis, SettingTitle:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return Setting{}, fmt.Errorf("%w: %s wants true or false, got %q", ErrInvalidSetting, key, value)
		}
		return Setting{Kind: kind, Flag: on}, nil
	default:
		n, err := strconv.Atoi(value)
		if err != nil {
			return Setting{}, fmt.Errorf("%w: %s wants an integer, got %q", ErrInvalidSetting, key, value)
		}
		return Setting{Kind: kind, Number: n}, nil
	}
}

func (s Setting) applyTo(cfg *config.PlotConfig) error {
	switch s.Kind {
	case SettingTitleString:
		cfg.TitleString = s.Text
	case SettingMesh:
		cfg.Mesh = s.Flag
	case SettingXAxis:
		cfg.XAxis = s.Flag
	case SettingYAxis:
		cfg.YAxis = s.Flag
	case SettingTitle:
		cfg.Title = s.Flag
	case SettingQuality:
		cfg.Quality = s.Number
	case SettingCanvasWidth:
		cfg.CanvasSize.Width = s.Number
	case SettingCanvasHeight:
		cfg.CanvasSize.Height = s.Number
	case SettingInterpolation:
		mode, err := fnspec.ParseInterpolation(s.Text)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
		}
		cfg.Interpolation = string(mode)
	default:
		return fmt.Errorf("%w: unknown setting kind %d", ErrInvalidSetting, s.Kind)
	}
	return nil
}
