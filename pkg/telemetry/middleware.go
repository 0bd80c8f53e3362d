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
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GinMiddleware traces each request and, when metrics is non-nil, records
// request count, duration, and in-flight requests.
//
// Description:
//
//	Server spans come from otelgin, which extracts incoming trace context
//	from the request headers and marks 5xx responses as failed. Metric
//	labels use the route template (c.FullPath()) so that path parameters
//	do not explode cardinality.
//
// Inputs:
//
//	service - Server name reported on spans, e.g. "fnplot".
//	metrics - Instruments from NewMetrics. May be nil.
//
// Outputs:
//
//	gin.HandlersChain - Middleware for router.Use(chain...).
func GinMiddleware(service string, metrics *Metrics) gin.HandlersChain {
	chain := gin.HandlersChain{otelgin.Middleware(service)}
	if metrics != nil {
		chain = append(chain, requestMetrics(metrics))
	}
	return chain
}

func requestMetrics(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		metrics.HTTPActiveRequests.Add(ctx, 1)
		defer metrics.HTTPActiveRequests.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.Int("status", c.Writer.Status()),
		)
		metrics.HTTPRequestsTotal.Add(ctx, 1, attrs)
		metrics.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
