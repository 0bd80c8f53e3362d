// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the persisted plot configuration and the stores
// that load and save it.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

const (
	MinCanvasSize     = 5
	MaxCanvasSize     = 1600
	DefaultCanvasSize = 360

	MinQuality     = 2
	MaxQuality     = 1000
	DefaultQuality = 100

	DefaultLeft  = -3.14
	DefaultRight = 3.14

	DefaultTitle = "Your function"
)

// PlotConfig is everything needed to restore a plot: display settings,
// the x-domain, and the function sources with their visibility.
type PlotConfig struct {
	CanvasSize    CanvasSize       `yaml:"canvas_size" json:"canvas_size"`
	Domain        Domain           `yaml:"domain" json:"domain"`
	Mesh          bool             `yaml:"mesh" json:"mesh"`
	XAxis         bool             `yaml:"x_axis" json:"x_axis"`
	YAxis         bool             `yaml:"y_axis" json:"y_axis"`
	Title         bool             `yaml:"title" json:"title"`
	TitleString   string           `yaml:"title_string" json:"title_string" validate:"max=256"`
	Quality       int              `yaml:"quality" json:"quality" validate:"gte=2,lte=1000"`
	Interpolation string           `yaml:"interpolation" json:"interpolation" validate:"interpolation"`
	Functions     []FunctionConfig `yaml:"functions" json:"functions" validate:"dive"`
}

// CanvasSize is the drawing area in pixels.
type CanvasSize struct {
	Width  int `yaml:"width" json:"width" validate:"gte=5,lte=1600"`
	Height int `yaml:"height" json:"height" validate:"gte=5,lte=1600"`
}

// Domain is the plotted x-interval. Left never exceeds Right.
type Domain struct {
	Left  float64 `yaml:"left" json:"left" validate:"finite"`
	Right float64 `yaml:"right" json:"right" validate:"finite,gtefield=Left"`
}

// FunctionConfig is one persisted function entry.
type FunctionConfig struct {
	Source string `yaml:"source" json:"source" validate:"required,max=4096"`
	Shown  bool   `yaml:"shown" json:"shown"`
}

// DefaultPlotConfig returns the settings of a fresh plot: a 360x360 canvas
// over [-3.14, 3.14] with every decoration on and sin(x) shown.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		CanvasSize:    CanvasSize{Width: DefaultCanvasSize, Height: DefaultCanvasSize},
		Domain:        Domain{Left: DefaultLeft, Right: DefaultRight},
		Mesh:          true,
		XAxis:         true,
		YAxis:         true,
		Title:         true,
		TitleString:   DefaultTitle,
		Quality:       DefaultQuality,
		Interpolation: string(fnspec.Cosine),
		Functions: []FunctionConfig{
			{Source: fnspec.DefaultSource, Shown: true},
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("finite", validateFinite)
	_ = validate.RegisterValidation("interpolation", validateInterpolation)
}

func validateFinite(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateInterpolation(fl validator.FieldLevel) bool {
	_, err := fnspec.ParseInterpolation(fl.Field().String())
	return err == nil
}

// Validate checks ranges and the domain ordering. Function sources are
// not parsed here; an unparsable source falls back to the default when the
// plot is built.
func (c PlotConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy.
func (c PlotConfig) Clone() PlotConfig {
	out := c
	out.Functions = append([]FunctionConfig(nil), c.Functions...)
	return out
}

// InterpolationMode returns the parsed interpolation, defaulting to cosine.
func (c PlotConfig) InterpolationMode() fnspec.Interpolation {
	mode, err := fnspec.ParseInterpolation(c.Interpolation)
	if err != nil {
		return fnspec.Cosine
	}
	return mode
}
