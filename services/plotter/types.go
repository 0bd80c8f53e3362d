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
	"encoding/json"

	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable message.
	Error string `json:"error"`

	// Code is a stable machine-readable code such as "FORMAT_ERROR".
	Code string `json:"code"`
}

// ParseRequest is the request body for POST /v1/fnplot/parse.
type ParseRequest struct {
	// Source is the function definition. Required.
	Source string `json:"source" binding:"required,max=4096"`

	// Interpolation selects the spline mode for point lists. Default: cosine.
	Interpolation string `json:"interpolation"`
}

// ParseResponse is the response for POST /v1/fnplot/parse.
type ParseResponse struct {
	// Kind is "analytical" or "interpolated".
	Kind string `json:"kind"`

	// Source echoes the request.
	Source string `json:"source"`

	// Canonical is the spec rendered back into parseable text.
	Canonical string `json:"canonical"`

	// Variable is the free variable of an analytical spec, if any.
	Variable string `json:"variable,omitempty"`

	// Keys are the sorted keys of an interpolated spec.
	Keys []fnspec.Key `json:"keys,omitempty"`

	// Interpolation is the spline mode of an interpolated spec.
	Interpolation string `json:"interpolation,omitempty"`
}

// FunctionInput is one function in an EvaluateRequest.
type FunctionInput struct {
	Source string `json:"source" binding:"required,max=4096"`

	// Shown defaults to true.
	Shown *bool `json:"shown"`
}

// DomainInput carries optional domain bounds.
type DomainInput struct {
	Left  *float64 `json:"left"`
	Right *float64 `json:"right"`
}

// EvaluateRequest is the request body for POST /v1/fnplot/evaluate.
type EvaluateRequest struct {
	// Functions to evaluate, in display order. Required, 1-32 items.
	Functions []FunctionInput `json:"functions" binding:"required,min=1,max=32,dive"`

	// Domain defaults to [-3.14, 3.14].
	Domain *DomainInput `json:"domain"`

	// Quality is the number of grid points, 2-1000. Default: 100.
	Quality int `json:"quality" binding:"omitempty,gte=2,lte=1000"`

	// Interpolation selects the spline mode for point lists.
	Interpolation string `json:"interpolation"`
}

// toConfig converts the request into a plot config on top of the defaults.
func (r EvaluateRequest) toConfig() config.PlotConfig {
	cfg := config.DefaultPlotConfig()
	if r.Domain != nil {
		if r.Domain.Left != nil {
			cfg.Domain.Left = *r.Domain.Left
		}
		if r.Domain.Right != nil {
			cfg.Domain.Right = *r.Domain.Right
		}
	}
	if r.Quality != 0 {
		cfg.Quality = r.Quality
	}
	if r.Interpolation != "" {
		cfg.Interpolation = r.Interpolation
	}
	cfg.Functions = make([]config.FunctionConfig, len(r.Functions))
	for i, f := range r.Functions {
		shown := true
		if f.Shown != nil {
			shown = *f.Shown
		}
		cfg.Functions[i] = config.FunctionConfig{Source: f.Source, Shown: shown}
	}
	return cfg
}

// CreatePlotRequest is the optional request body for POST /v1/fnplot/plots.
type CreatePlotRequest struct {
	// Config is the starting configuration, decoded on top of the defaults.
	// Absent loads the stored config.
	Config json.RawMessage `json:"config"`
}

// PlotResponse describes one plot.
type PlotResponse struct {
	ID        string            `json:"id"`
	Config    config.PlotConfig `json:"config"`
	Functions []FunctionInfo    `json:"functions"`
}

// SetFunctionRequest is the request body for
// PUT /v1/fnplot/plots/:id/functions/:fid.
type SetFunctionRequest struct {
	Source string `json:"source" binding:"required,max=4096"`
}

// FunctionErrorResponse is returned when a function source did not parse.
// Function shows the entry after it fell back to the default.
type FunctionErrorResponse struct {
	ErrorResponse
	Function FunctionInfo `json:"function"`
}

// ToggleResponse is the response for the toggle endpoint.
type ToggleResponse struct {
	ID    string `json:"id"`
	Shown bool   `json:"shown"`
}

// SettingsRequest is the request body for PUT /v1/fnplot/plots/:id/settings.
// Nil fields are left unchanged.
type SettingsRequest struct {
	TitleString   *string `json:"title_string"`
	Mesh          *bool   `json:"mesh"`
	XAxis         *bool   `json:"x_axis"`
	YAxis         *bool   `json:"y_axis"`
	Title         *bool   `json:"title"`
	Quality       *int    `json:"quality"`
	CanvasWidth   *int    `json:"canvas_width"`
	CanvasHeight  *int    `json:"canvas_height"`
	Interpolation *string `json:"interpolation"`
}

// settings converts the request into Settings in a fixed order.
func (r SettingsRequest) settings() []Setting {
	var out []Setting
	if r.TitleString != nil {
		out = append(out, TitleString(*r.TitleString))
	}
	if r.Mesh != nil {
		out = append(out, Mesh(*r.Mesh))
	}
	if r.XAxis != nil {
		out = append(out, XAxis(*r.XAxis))
	}
	if r.YAxis != nil {
		out = append(out, YAxis(*r.YAxis))
	}
	if r.Title != nil {
		out = append(out, TitleShown(*r.Title))
	}
	if r.Quality != nil {
		out = append(out, Quality(*r.Quality))
	}
	if r.CanvasWidth != nil {
		out = append(out, CanvasWidth(*r.CanvasWidth))
	}
	if r.CanvasHeight != nil {
		out = append(out, CanvasHeight(*r.CanvasHeight))
	}
	if r.Interpolation != nil {
		out = append(out, Interpolation(*r.Interpolation))
	}
	return out
}

// SaveResponse is the response for POST /v1/fnplot/plots/:id/save.
type SaveResponse struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

// HealthResponse is the response for GET /v1/fnplot/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/fnplot/ready.
type ReadyResponse struct {
	Ready     bool `json:"ready"`
	PlotCount int  `json:"plot_count"`
	StoreOK   bool `json:"store_ok"`
}
