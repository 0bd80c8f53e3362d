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
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/fnplot/pkg/telemetry"
	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

// Handlers contains the HTTP handlers for the plotter service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleParse handles POST /v1/fnplot/parse.
//
// Description:
//
//	Classifies a function source as analytical or interpolated without
//	creating any state.
//
// Request Body:
//
//	ParseRequest
//
// Response:
//
//	200 OK: ParseResponse
//	400 Bad Request: Validation error or unknown interpolation
//	422 Unprocessable Entity: Source is neither format
func (h *Handlers) HandleParse(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleParse")

	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	spec, err := h.svc.Parse(c.Request.Context(), req.Source, req.Interpolation)
	if err != nil {
		writeError(c, logger, "Parse failed", err, "PARSE_FAILED")
		return
	}

	c.JSON(http.StatusOK, NewParseResponse(req.Source, spec))
}

// HandleEvaluate handles POST /v1/fnplot/evaluate.
//
// Description:
//
//	Evaluates the given functions over a domain without keeping a plot.
//	Every source must parse.
//
// Request Body:
//
//	EvaluateRequest
//
// Response:
//
//	200 OK: Evaluation
//	400 Bad Request: Validation error or invalid domain
//	422 Unprocessable Entity: A source is neither format
func (h *Handlers) HandleEvaluate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleEvaluate")

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	eval, err := h.svc.EvaluateConfig(c.Request.Context(), req.toConfig())
	if err != nil {
		writeError(c, logger, "Evaluate failed", err, "EVALUATE_FAILED")
		return
	}

	logger.Debug("Evaluated functions",
		"series", len(eval.Series),
		"grid_points", len(eval.Grid),
		"non_finite", eval.NonFinite())

	c.JSON(http.StatusOK, eval)
}

// HandleCreatePlot handles POST /v1/fnplot/plots.
//
// Description:
//
//	Creates a plot. With no body, or a body without "config", the plot
//	starts from the stored config (or the default when nothing is
//	stored). A given config is decoded on top of the defaults. Sources
//	that do not parse fall back to the default function.
//
// Request Body:
//
//	CreatePlotRequest (optional)
//
// Response:
//
//	201 Created: PlotResponse
//	400 Bad Request: Invalid config
//	409 Conflict: Plot limit reached
func (h *Handlers) HandleCreatePlot(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleCreatePlot")

	var req CreatePlotRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid request body",
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}

	var cfg *config.PlotConfig
	if raw := bytes.TrimSpace(req.Config); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		decoded, err := config.Decode(raw)
		if err != nil {
			writeError(c, logger, "Invalid plot config", err, "INVALID_CONFIG")
			return
		}
		cfg = &decoded
	}

	plot, err := h.svc.CreatePlot(c.Request.Context(), cfg)
	if err != nil {
		writeError(c, logger, "Create plot failed", err, "CREATE_FAILED")
		return
	}

	logger.Info("Plot created", "plot_id", plot.ID(), "functions", len(plot.Functions()))
	c.JSON(http.StatusCreated, plotResponse(plot))
}

// HandleGetPlot handles GET /v1/fnplot/plots/:id.
//
// Response:
//
//	200 OK: PlotResponse
//	404 Not Found: Unknown plot
func (h *Handlers) HandleGetPlot(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleGetPlot")

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, plotResponse(plot))
}

// HandleDeletePlot handles DELETE /v1/fnplot/plots/:id.
//
// Response:
//
//	204 No Content: Deleted
//	404 Not Found: Unknown plot
func (h *Handlers) HandleDeletePlot(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleDeletePlot")

	if err := h.svc.DeletePlot(c.Param("id")); err != nil {
		writeError(c, logger, "Delete plot failed", err, "DELETE_FAILED")
		return
	}
	logger.Info("Plot deleted", "plot_id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

// HandleAddFunction handles POST /v1/fnplot/plots/:id/functions.
//
// Description:
//
//	Appends a shown entry holding the default function.
//
// Response:
//
//	201 Created: FunctionInfo
//	404 Not Found: Unknown plot
//	409 Conflict: Function limit reached
func (h *Handlers) HandleAddFunction(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleAddFunction")

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	fn, err := plot.AddFunction()
	if err != nil {
		writeError(c, logger, "Add function failed", err, "ADD_FAILED")
		return
	}
	c.JSON(http.StatusCreated, fn)
}

// HandleSetFunction handles PUT /v1/fnplot/plots/:id/functions/:fid.
//
// Description:
//
//	Replaces the source of one entry. A source that does not parse resets
//	the entry to the default function; the response then carries the
//	diagnostic together with the entry as it now stands.
//
// Request Body:
//
//	SetFunctionRequest
//
// Response:
//
//	200 OK: FunctionInfo
//	404 Not Found: Unknown plot or function
//	422 Unprocessable Entity: FunctionErrorResponse
func (h *Handlers) HandleSetFunction(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleSetFunction")

	var req SetFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}

	fn, err := plot.SetFunction(c.Param("fid"), req.Source)
	if errors.Is(err, fnspec.ErrFormat) {
		logger.Warn("Function source rejected", "function_id", fn.ID, "error", err)
		c.JSON(http.StatusUnprocessableEntity, FunctionErrorResponse{
			ErrorResponse: ErrorResponse{Error: err.Error(), Code: "FORMAT_ERROR"},
			Function:      fn,
		})
		return
	}
	if err != nil {
		writeError(c, logger, "Set function failed", err, "SET_FAILED")
		return
	}
	c.JSON(http.StatusOK, fn)
}

// HandleToggleFunction handles POST /v1/fnplot/plots/:id/functions/:fid/toggle.
//
// Response:
//
//	200 OK: ToggleResponse
//	404 Not Found: Unknown plot or function
func (h *Handlers) HandleToggleFunction(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleToggleFunction")

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	shown, err := plot.ToggleFunction(c.Param("fid"))
	if err != nil {
		writeError(c, logger, "Toggle function failed", err, "TOGGLE_FAILED")
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{ID: c.Param("fid"), Shown: shown})
}

// HandleRemoveFunction handles DELETE /v1/fnplot/plots/:id/functions/:fid.
//
// Response:
//
//	204 No Content: Removed
//	404 Not Found: Unknown plot or function
func (h *Handlers) HandleRemoveFunction(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleRemoveFunction")

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	if err := plot.RemoveFunction(c.Param("fid")); err != nil {
		writeError(c, logger, "Remove function failed", err, "REMOVE_FAILED")
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSetDomain handles PUT /v1/fnplot/plots/:id/domain.
//
// Description:
//
//	Moves one or both domain bounds. A single bound never crosses the
//	other: left is capped at right and right is raised to left. When
//	both are given they must already satisfy left <= right.
//
// Request Body:
//
//	DomainInput
//
// Response:
//
//	200 OK: config.Domain
//	400 Bad Request: Invalid domain
//	404 Not Found: Unknown plot
func (h *Handlers) HandleSetDomain(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleSetDomain")

	var req DomainInput
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	domain, err := plot.SetDomain(req.Left, req.Right)
	if err != nil {
		writeError(c, logger, "Set domain failed", err, "DOMAIN_FAILED")
		return
	}
	c.JSON(http.StatusOK, domain)
}

// HandleUpdateSettings handles PUT /v1/fnplot/plots/:id/settings.
//
// Description:
//
//	Applies the given display settings. Either all of them are applied
//	or none is.
//
// Request Body:
//
//	SettingsRequest
//
// Response:
//
//	200 OK: PlotResponse
//	400 Bad Request: A setting is out of range
//	404 Not Found: Unknown plot
func (h *Handlers) HandleUpdateSettings(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleUpdateSettings")

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	if err := plot.Apply(req.settings()...); err != nil {
		writeError(c, logger, "Update settings failed", err, "SETTINGS_FAILED")
		return
	}
	c.JSON(http.StatusOK, plotResponse(plot))
}

// HandleEvaluatePlot handles GET /v1/fnplot/plots/:id/evaluate.
//
// Response:
//
//	200 OK: Evaluation
//	404 Not Found: Unknown plot
func (h *Handlers) HandleEvaluatePlot(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleEvaluatePlot")

	plot, ok := h.lookupPlot(c, logger)
	if !ok {
		return
	}
	eval, err := plot.Evaluate(c.Request.Context())
	if err != nil {
		writeError(c, logger, "Evaluate plot failed", err, "EVALUATE_FAILED")
		return
	}
	c.JSON(http.StatusOK, eval)
}

// HandleSavePlot handles POST /v1/fnplot/plots/:id/save.
//
// Response:
//
//	200 OK: SaveResponse
//	404 Not Found: Unknown plot
//	503 Service Unavailable: No store configured
func (h *Handlers) HandleSavePlot(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "trace_id", telemetry.TraceID(c.Request.Context()), "handler", "HandleSavePlot")

	id := c.Param("id")
	if err := h.svc.SavePlot(c.Request.Context(), id); err != nil {
		writeError(c, logger, "Save plot failed", err, "SAVE_FAILED")
		return
	}
	logger.Info("Plot saved", "plot_id", id)
	c.JSON(http.StatusOK, SaveResponse{ID: id, Saved: true})
}

// HandleHealth handles GET /v1/fnplot/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/fnplot/ready.
//
// Description:
//
//	Reports readiness. The service has no warmup, so it is ready as soon
//	as it serves; StoreOK reports whether plots can be saved.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:     true,
		PlotCount: h.svc.PlotCount(),
		StoreOK:   h.svc.HasStore(),
	})
}

// lookupPlot resolves the :id path parameter, writing a 404 on failure.
func (h *Handlers) lookupPlot(c *gin.Context, logger *slog.Logger) (*Plot, bool) {
	plot, err := h.svc.GetPlot(c.Param("id"))
	if err != nil {
		writeError(c, logger, "Plot lookup failed", err, "LOOKUP_FAILED")
		return nil, false
	}
	return plot, true
}

// writeError maps err to a status code and error code and writes it.
// fallbackCode is used for errors that match no sentinel.
func writeError(c *gin.Context, logger *slog.Logger, msg string, err error, fallbackCode string) {
	statusCode := http.StatusInternalServerError
	errCode := fallbackCode

	if errors.Is(err, ErrPlotNotFound) {
		statusCode = http.StatusNotFound
		errCode = "PLOT_NOT_FOUND"
	} else if errors.Is(err, ErrFunctionNotFound) {
		statusCode = http.StatusNotFound
		errCode = "FUNCTION_NOT_FOUND"
	} else if errors.Is(err, fnspec.ErrFormat) {
		statusCode = http.StatusUnprocessableEntity
		errCode = "FORMAT_ERROR"
	} else if errors.Is(err, ErrTooManyPlots) || errors.Is(err, ErrTooManyFunctions) {
		statusCode = http.StatusConflict
		errCode = "LIMIT_REACHED"
	} else if errors.Is(err, ErrInvalidDomain) {
		statusCode = http.StatusBadRequest
		errCode = "INVALID_DOMAIN"
	} else if errors.Is(err, ErrInvalidSetting) {
		statusCode = http.StatusBadRequest
		errCode = "INVALID_SETTING"
	} else if errors.Is(err, config.ErrInvalidConfig) {
		statusCode = http.StatusBadRequest
		errCode = "INVALID_CONFIG"
	} else if errors.Is(err, ErrNoStore) {
		statusCode = http.StatusServiceUnavailable
		errCode = "NO_STORE"
	} else if errors.Is(err, context.DeadlineExceeded) {
		statusCode = http.StatusGatewayTimeout
		errCode = "TIMEOUT"
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error(msg, "error", err)
	} else {
		logger.Warn(msg, "error", err)
	}
	c.JSON(statusCode, ErrorResponse{
		Error: err.Error(),
		Code:  errCode,
	})
}

// getOrCreateRequestID returns the X-Request-ID header or a new UUID, and
// echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// NewParseResponse describes spec, parsed from source.
func NewParseResponse(source string, spec fnspec.FunctionSpec) ParseResponse {
	resp := ParseResponse{
		Kind:      spec.Kind().String(),
		Source:    source,
		Canonical: spec.String(),
	}
	switch s := spec.(type) {
	case *fnspec.Analytical:
		resp.Variable = s.Variable()
	case *fnspec.Interpolated:
		resp.Keys = s.Spline().Keys()
		resp.Interpolation = string(s.Spline().Interpolation())
	}
	return resp
}

func plotResponse(p *Plot) PlotResponse {
	cfg := p.Config()
	return PlotResponse{
		ID:        p.ID(),
		Config:    cfg,
		Functions: p.Functions(),
	}
}
