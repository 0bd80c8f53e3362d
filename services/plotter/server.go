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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/fnplot/pkg/telemetry"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// Rate is the sustained request rate per second. Zero disables limiting.
	Rate float64

	// Burst is the token bucket size. Default: 2 * Rate, at least 1.
	Burst int

	// Metrics records HTTP request metrics. May be nil.
	Metrics *telemetry.Metrics

	// MetricsHandler serves /metrics. Nil uses telemetry.MetricsHandler,
	// falling back to promhttp.Handler.
	MetricsHandler http.Handler

	// Debug enables gin's request logger.
	Debug bool
}

// NewRouter builds the HTTP router for svc.
//
// Description:
//
//	Installs recovery, tracing and request metrics, and rate limiting,
//	then registers the /v1/fnplot routes and GET /metrics at the root.
//	/metrics is not rate limited.
func NewRouter(svc *Service, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}
	router.Use(telemetry.GinMiddleware("fnplot", cfg.Metrics)...)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = telemetry.MetricsHandler()
	}
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metricsHandler))

	v1 := router.Group("/v1")
	v1.Use(RateLimit(newLimiter(cfg.Rate, cfg.Burst)))
	RegisterRoutes(v1, NewHandlers(svc))

	return router
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(2 * perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
