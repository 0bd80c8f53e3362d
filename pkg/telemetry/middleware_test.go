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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestGinMiddleware_SpanPerRoute(t *testing.T) {
	sr := withSpanRecorder(t)
	m, reader, _ := newTestMetrics(t)

	var spanCtx trace.SpanContext
	router := gin.New()
	router.Use(GinMiddleware("test", m)...)
	router.GET("/v1/fnplot/plots/:id", func(c *gin.Context) {
		spanCtx = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/fnplot/plots/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, spanCtx.IsValid())
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/v1/fnplot/plots/:id")
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	assert.Equal(t, int64(1), sumOf(t, reader, "fnplot_http_requests_total"))
}

func TestGinMiddleware_ServerErrorMarksSpan(t *testing.T) {
	sr := withSpanRecorder(t)

	router := gin.New()
	router.Use(GinMiddleware("test", nil)...)
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestGinMiddleware_UnmatchedRoute(t *testing.T) {
	sr := withSpanRecorder(t)

	router := gin.New()
	router.Use(GinMiddleware("test", nil)...)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotContains(t, spans[0].Name(), "/nowhere")
}

func TestGinMiddleware_NilMetricsIsTracingOnly(t *testing.T) {
	assert.Len(t, GinMiddleware("test", nil), 1)

	m, _, _ := newTestMetrics(t)
	assert.Len(t, GinMiddleware("test", m), 2)
}

func TestGinMiddleware_UnmatchedRouteMetrics(t *testing.T) {
	m, reader, _ := newTestMetrics(t)

	router := gin.New()
	router.Use(GinMiddleware("test", m)...)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(1), sumOf(t, reader, "fnplot_http_requests_total"))
}

func TestStartSpanAndRecordError(t *testing.T) {
	sr := withSpanRecorder(t)

	ctx, span := StartSpan(context.Background(), "test", "Plot.Evaluate")
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, assert.AnError)
	span.End()

	RecordError(nil, assert.AnError)
	SetSpanOK(nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Empty(t, TraceID(context.Background()))
}
