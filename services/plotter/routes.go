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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all plotter routes with the router.
//
// Description:
//
//	Registers all /v1/fnplot/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Stateless Endpoints:
//
//	POST /v1/fnplot/parse - Classify a function source
//	POST /v1/fnplot/evaluate - Evaluate functions over a domain
//
// Plot Endpoints:
//
//	POST   /v1/fnplot/plots - Create a plot
//	GET    /v1/fnplot/plots/:id - Get a plot
//	DELETE /v1/fnplot/plots/:id - Delete a plot
//	POST   /v1/fnplot/plots/:id/functions - Add a default function
//	PUT    /v1/fnplot/plots/:id/functions/:fid - Replace a function source
//	POST   /v1/fnplot/plots/:id/functions/:fid/toggle - Toggle visibility
//	DELETE /v1/fnplot/plots/:id/functions/:fid - Remove a function
//	PUT    /v1/fnplot/plots/:id/domain - Move domain bounds
//	PUT    /v1/fnplot/plots/:id/settings - Change display settings
//	GET    /v1/fnplot/plots/:id/evaluate - Evaluate the plot
//	POST   /v1/fnplot/plots/:id/save - Save the plot config
//
// Health Endpoints:
//
//	GET  /v1/fnplot/health - Health check
//	GET  /v1/fnplot/ready - Readiness check
//
// Example:
//
//	service := plotter.NewService(plotter.DefaultServiceConfig(), nil)
//	handlers := plotter.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	plotter.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	fnplot := rg.Group("/fnplot")
	{
		// Stateless
		fnplot.POST("/parse", handlers.HandleParse)
		fnplot.POST("/evaluate", handlers.HandleEvaluate)

		// Plot lifecycle
		fnplot.POST("/plots", handlers.HandleCreatePlot)
		fnplot.GET("/plots/:id", handlers.HandleGetPlot)
		fnplot.DELETE("/plots/:id", handlers.HandleDeletePlot)

		// Function entries
		fnplot.POST("/plots/:id/functions", handlers.HandleAddFunction)
		fnplot.PUT("/plots/:id/functions/:fid", handlers.HandleSetFunction)
		fnplot.POST("/plots/:id/functions/:fid/toggle", handlers.HandleToggleFunction)
		fnplot.DELETE("/plots/:id/functions/:fid", handlers.HandleRemoveFunction)

		// Domain and display settings
		fnplot.PUT("/plots/:id/domain", handlers.HandleSetDomain)
		fnplot.PUT("/plots/:id/settings", handlers.HandleUpdateSettings)

		fnplot.GET("/plots/:id/evaluate", handlers.HandleEvaluatePlot)
		fnplot.POST("/plots/:id/save", handlers.HandleSavePlot)

		// Health checks
		fnplot.GET("/health", handlers.HandleHealth)
		fnplot.GET("/ready", handlers.HandleReady)
	}
}
