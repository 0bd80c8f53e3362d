// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the plotter's instruments. All names carry the "fnplot_"
// prefix.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// --- HTTP Metrics ---

	// HTTPRequestsTotal counts requests by method, route, and status.
	HTTPRequestsTotal metric.Int64Counter

	// HTTPRequestDuration records request duration in seconds.
	HTTPRequestDuration metric.Float64Histogram

	// HTTPActiveRequests tracks in-flight requests.
	HTTPActiveRequests metric.Int64UpDownCounter

	// --- Plotter Metrics ---

	// ParsesTotal counts parse attempts by kind and outcome.
	ParsesTotal metric.Int64Counter

	// FallbacksTotal counts entries reset to the default function after
	// a failed parse.
	FallbacksTotal metric.Int64Counter

	// EvaluationsTotal counts evaluation passes.
	EvaluationsTotal metric.Int64Counter

	// EvaluationDuration records evaluation pass duration in seconds.
	EvaluationDuration metric.Float64Histogram

	// SamplesTotal counts evaluated samples.
	SamplesTotal metric.Int64Counter

	// NonFiniteSamplesTotal counts samples that were NaN or infinite.
	NonFiniteSamplesTotal metric.Int64Counter

	// PlotsActive reports the number of plots held by the service.
	PlotsActive metric.Int64ObservableGauge
}

// NewMetrics registers every instrument with meter.
//
// Description:
//
//	Creates the counters and histograms used by the service and the HTTP
//	middleware. PlotsActive is registered separately through
//	RegisterPlotsGauge because it needs a callback.
//
// Inputs:
//
//	meter - The OTel meter, usually otel.Meter("fnplot").
//
// Outputs:
//
//	*Metrics - Ready to record.
//	error - Non-nil if any instrument fails to register.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"fnplot_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"fnplot_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_request_duration: %w", err)
	}

	m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"fnplot_http_active_requests",
		metric.WithDescription("Currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_active_requests: %w", err)
	}

	m.ParsesTotal, err = meter.Int64Counter(
		"fnplot_parses_total",
		metric.WithDescription("Function definitions parsed, by kind and outcome"),
		metric.WithUnit("{parse}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create parses_total: %w", err)
	}

	m.FallbacksTotal, err = meter.Int64Counter(
		"fnplot_fallbacks_total",
		metric.WithDescription("Entries reset to the default function after a parse failure"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create fallbacks_total: %w", err)
	}

	m.EvaluationsTotal, err = meter.Int64Counter(
		"fnplot_evaluations_total",
		metric.WithDescription("Evaluation passes"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluations_total: %w", err)
	}

	m.EvaluationDuration, err = meter.Float64Histogram(
		"fnplot_evaluation_duration_seconds",
		metric.WithDescription("Evaluation pass duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluation_duration: %w", err)
	}

	m.SamplesTotal, err = meter.Int64Counter(
		"fnplot_samples_total",
		metric.WithDescription("Evaluated samples"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create samples_total: %w", err)
	}

	m.NonFiniteSamplesTotal, err = meter.Int64Counter(
		"fnplot_non_finite_samples_total",
		metric.WithDescription("Evaluated samples that were NaN or infinite"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create non_finite_samples_total: %w", err)
	}

	return m, nil
}

// RecordParse counts one parse attempt. kind is "analytical",
// "interpolated", or "" for a failure.
func (m *Metrics) RecordParse(ctx context.Context, kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		kind = "none"
	}
	m.ParsesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

// RecordEvaluation records one evaluation pass.
func (m *Metrics) RecordEvaluation(ctx context.Context, seconds float64, series, samples, nonFinite int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Int("series", series))
	m.EvaluationsTotal.Add(ctx, 1, attrs)
	m.EvaluationDuration.Record(ctx, seconds, attrs)
	m.SamplesTotal.Add(ctx, int64(samples))
	m.NonFiniteSamplesTotal.Add(ctx, int64(nonFinite))
}

// RecordFallback counts one reset to the default function.
func (m *Metrics) RecordFallback(ctx context.Context) {
	if m == nil {
		return
	}
	m.FallbacksTotal.Add(ctx, 1)
}

// RegisterPlotsGauge registers the PlotsActive gauge. countFunc is called
// on every collection.
func (m *Metrics) RegisterPlotsGauge(meter metric.Meter, countFunc func() int64) (metric.Registration, error) {
	var err error
	m.PlotsActive, err = meter.Int64ObservableGauge(
		"fnplot_plots_active",
		metric.WithDescription("Plots held by the service"),
		metric.WithUnit("{plot}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create plots_active: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(m.PlotsActive, countFunc())
		return nil
	}, m.PlotsActive)
}
