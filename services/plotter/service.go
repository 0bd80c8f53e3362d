// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package plotter is the function plotter service: live plot state, the
// service that owns plots, and its HTTP API.
package plotter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AleutianAI/fnplot/pkg/telemetry"
	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/evaluate"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// ServiceVersion is the plotter service version.
const ServiceVersion = "0.1.0"

// ServiceConfig configures the Service.
type ServiceConfig struct {
	// MaxPlots is the maximum number of plots held at once.
	// Default: 64
	MaxPlots int

	// MaxFunctions is the maximum number of entries per plot.
	// Default: 32
	MaxFunctions int

	// Workers is how many entries are evaluated concurrently.
	// Default: runtime.NumCPU()
	Workers int
}

// DefaultServiceConfig returns the default limits.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxPlots:     64,
		MaxFunctions: DefaultMaxFunctions,
		Workers:      runtime.NumCPU(),
	}
}

// Service owns a set of plots and the store their configuration is saved
// to.
//
// Thread Safety: Service is safe for concurrent use.
type Service struct {
	config    ServiceConfig
	store     config.Store
	evaluator *evaluate.Evaluator
	metrics   *telemetry.Metrics

	plots map[string]*Plot
	mu    sync.RWMutex
}

// NewService creates a service. store may be nil, in which case plots
// start from the default config and cannot be saved.
func NewService(cfg ServiceConfig, store config.Store) *Service {
	return &Service{
		config:    cfg,
		store:     store,
		evaluator: evaluate.NewEvaluator(evaluate.WithWorkers(cfg.Workers)),
		plots:     make(map[string]*Plot),
	}
}

// SetMetrics enables metric recording for the service and plots created
// afterwards.
func (s *Service) SetMetrics(m *telemetry.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// Parse classifies source without creating any state.
func (s *Service) Parse(ctx context.Context, source, interpolation string) (fnspec.FunctionSpec, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.Parse")
	defer span.End()

	mode, err := fnspec.ParseInterpolation(interpolation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	spec, err := fnspec.ParseWith(source, fnspec.WithInterpolation(mode))
	kind := ""
	if spec != nil {
		kind = spec.Kind().String()
	}
	s.metricsSnapshot().RecordParse(ctx, kind, err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetSpanOK(span)
	return spec, nil
}

// EvaluateConfig evaluates cfg without keeping a plot.
//
// Unlike NewPlot, an unparsable source is an error here rather than a
// fallback: the caller sent the sources and needs the diagnostic.
func (s *Service) EvaluateConfig(ctx context.Context, cfg config.PlotConfig) (Evaluation, error) {
	if err := cfg.Validate(); err != nil {
		return Evaluation{}, err
	}
	mode := cfg.InterpolationMode()
	for _, fc := range cfg.Functions {
		if _, err := fnspec.ParseWith(fc.Source, fnspec.WithInterpolation(mode)); err != nil {
			s.metricsSnapshot().RecordParse(ctx, "", err)
			return Evaluation{}, err
		}
	}
	plot := NewPlot(cfg, slog.Default(), s.plotOptions()...)
	return plot.Evaluate(ctx)
}

// CreatePlot creates a plot from cfg. A nil cfg loads the stored config,
// or the default when nothing is stored.
func (s *Service) CreatePlot(ctx context.Context, cfg *config.PlotConfig) (*Plot, error) {
	var base config.PlotConfig
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		base = *cfg
	} else {
		loaded, err := s.loadStored(ctx)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.MaxPlots > 0 && len(s.plots) >= s.config.MaxPlots {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyPlots, s.config.MaxPlots)
	}
	plot := NewPlot(base, slog.Default(), s.plotOptionsLocked()...)
	s.plots[plot.ID()] = plot
	return plot, nil
}

// GetPlot returns the plot id.
func (s *Service) GetPlot(id string) (*Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plot, ok := s.plots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, id)
	}
	return plot, nil
}

// DeletePlot removes the plot id.
func (s *Service) DeletePlot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plots[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPlotNotFound, id)
	}
	delete(s.plots, id)
	return nil
}

// PlotCount returns the number of plots held.
func (s *Service) PlotCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plots)
}

// SavePlot writes the plot's config to the store.
func (s *Service) SavePlot(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	plot, err := s.GetPlot(id)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, plot.Config()); err != nil {
		return fmt.Errorf("save plot %s: %w", id, err)
	}
	return nil
}

// HasStore reports whether plots can be saved.
func (s *Service) HasStore() bool { return s.store != nil }

func (s *Service) loadStored(ctx context.Context) (config.PlotConfig, error) {
	if s.store == nil {
		return config.DefaultPlotConfig(), nil
	}
	cfg, err := s.store.Load(ctx)
	if errors.Is(err, config.ErrNotFound) {
		return config.DefaultPlotConfig(), nil
	}
	if err != nil {
		return config.PlotConfig{}, fmt.Errorf("load stored config: %w", err)
	}
	return cfg, nil
}

func (s *Service) plotOptions() []PlotOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plotOptionsLocked()
}

func (s *Service) plotOptionsLocked() []PlotOption {
	return []PlotOption{
		WithEvaluator(s.evaluator),
		WithMetrics(s.metrics),
		WithMaxFunctions(s.config.MaxFunctions),
	}
}

func (s *Service) metricsSnapshot() *telemetry.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}
