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
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/fnplot/services/plotter/config"
	"github.com/AleutianAI/fnplot/services/plotter/fnspec"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return v
}

func createTestPlot(t *testing.T, router *gin.Engine, body string) PlotResponse {
	t.Helper()
	w := doRequest(t, router, "POST", "/v1/fnplot/plots", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create plot: expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	return decode[PlotResponse](t, w)
}

func TestHandlers_HandleHealth(t *testing.T) {
	svc := NewService(DefaultServiceConfig(), nil)
	router := setupTestRouter(svc)

	w := doRequest(t, router, "GET", "/v1/fnplot/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decode[HealthResponse](t, w)
	if resp.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", resp.Status)
	}
	if resp.Version != ServiceVersion {
		t.Errorf("expected version %q, got %q", ServiceVersion, resp.Version)
	}
}

func TestHandlers_HandleReady(t *testing.T) {
	svc := NewService(DefaultServiceConfig(), config.NewMemoryStore())
	router := setupTestRouter(svc)

	w := doRequest(t, router, "GET", "/v1/fnplot/ready", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := decode[ReadyResponse](t, w)
	if !resp.Ready {
		t.Error("expected Ready=true")
	}
	if resp.PlotCount != 0 {
		t.Errorf("expected 0 plots, got %d", resp.PlotCount)
	}
	if !resp.StoreOK {
		t.Error("expected StoreOK=true")
	}
}

func TestHandlers_RequestID(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	req, _ := http.NewRequest("POST", "/v1/fnplot/parse", bytes.NewBufferString(`{"source": "x"}`))
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected request id echoed, got %q", got)
	}

	w = doRequest(t, router, "POST", "/v1/fnplot/parse", `{"source": "x"}`)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}
}

func TestHandlers_HandleParse(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantKind   string
	}{
		{
			name:       "analytical",
			body:       `{"source": "sin(x)"}`,
			wantStatus: http.StatusOK,
			wantKind:   "analytical",
		},
		{
			name:       "interpolated",
			body:       `{"source": "[(1, 3.5), (0, 2)]"}`,
			wantStatus: http.StatusOK,
			wantKind:   "interpolated",
		},
		{
			name:       "empty body",
			body:       "{}",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "garbage",
			body:       `{"source": "not a function @@@"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "FORMAT_ERROR",
		},
		{
			name:       "unknown interpolation",
			body:       `{"source": "[(0, 1)]", "interpolation": "catmull-rom"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_SETTING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", "/v1/fnplot/parse", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode != "" {
				resp := decode[ErrorResponse](t, w)
				if resp.Code != tt.wantCode {
					t.Errorf("expected code %q, got %q", tt.wantCode, resp.Code)
				}
				return
			}
			resp := decode[ParseResponse](t, w)
			if resp.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, resp.Kind)
			}
		})
	}
}

func TestHandlers_HandleParse_Details(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	w := doRequest(t, router, "POST", "/v1/fnplot/parse", `{"source": "t^2"}`)
	resp := decode[ParseResponse](t, w)
	if resp.Variable != "t" {
		t.Errorf("expected variable t, got %q", resp.Variable)
	}

	w = doRequest(t, router, "POST", "/v1/fnplot/parse", `{"source": "[(1, 3.5), (0, 2)]"}`)
	resp = decode[ParseResponse](t, w)
	want := []fnspec.Key{{X: 0, Y: 2}, {X: 1, Y: 3.5}}
	if len(resp.Keys) != 2 || resp.Keys[0] != want[0] || resp.Keys[1] != want[1] {
		t.Errorf("expected keys %v, got %v", want, resp.Keys)
	}
	if resp.Interpolation != "cosine" {
		t.Errorf("expected cosine interpolation, got %q", resp.Interpolation)
	}
	if resp.Canonical != "[(0, 2), (1, 3.5)]" {
		t.Errorf("unexpected canonical form %q", resp.Canonical)
	}
}

func TestHandlers_HandleEvaluate(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	body := `{
		"functions": [{"source": "x"}, {"source": "x^2", "shown": false}],
		"domain": {"left": -1, "right": 1},
		"quality": 3
	}`
	w := doRequest(t, router, "POST", "/v1/fnplot/evaluate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	resp := decode[Evaluation](t, w)
	if len(resp.Grid) != 3 {
		t.Errorf("expected 3 grid points, got %d", len(resp.Grid))
	}
	if len(resp.Series) != 1 {
		t.Fatalf("expected 1 shown series, got %d", len(resp.Series))
	}
	if resp.Min != -1 || resp.Max != 1 {
		t.Errorf("expected range [-1, 1], got [%v, %v]", resp.Min, resp.Max)
	}
	if resp.PaddedMin >= resp.Min || resp.PaddedMax <= resp.Max {
		t.Errorf("expected padded range to widen [%v, %v], got [%v, %v]", resp.Min, resp.Max, resp.PaddedMin, resp.PaddedMax)
	}
}

func TestHandlers_HandleEvaluate_NonFinite(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	body := `{"functions": [{"source": "1/x"}], "domain": {"left": -1, "right": 1}, "quality": 3}`
	w := doRequest(t, router, "POST", "/v1/fnplot/evaluate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"values":[-1,null,1]`) {
		t.Errorf("expected the pole as null, got %s", w.Body.String())
	}

	resp := decode[Evaluation](t, w)
	if resp.NonFinite() != 1 {
		t.Errorf("expected 1 non-finite sample, got %d", resp.NonFinite())
	}
}

func TestHandlers_HandleEvaluate_HugeRange(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	body := `{"functions": [{"source": "x*5e307", "shown": true}], "domain": {"left": -3, "right": 3}, "quality": 3}`
	w := doRequest(t, router, "POST", "/v1/fnplot/evaluate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected a response body")
	}

	resp := decode[Evaluation](t, w)
	if resp.PaddedMin > resp.Min || resp.PaddedMax < resp.Max {
		t.Errorf("expected padded range to contain [%v, %v], got [%v, %v]", resp.Min, resp.Max, resp.PaddedMin, resp.PaddedMax)
	}
	if math.IsInf(resp.PaddedMin, 0) || math.IsInf(resp.PaddedMax, 0) {
		t.Errorf("expected a finite padded range, got [%v, %v]", resp.PaddedMin, resp.PaddedMax)
	}
}

func TestHandlers_HandleEvaluate_Errors(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"no functions", `{"functions": []}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing source", `{"functions": [{}]}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"quality too high", `{"functions": [{"source": "x"}], "quality": 5000}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad source", `{"functions": [{"source": "x + y"}]}`, http.StatusUnprocessableEntity, "FORMAT_ERROR"},
		{"inverted domain", `{"functions": [{"source": "x"}], "domain": {"left": 2, "right": 1}}`, http.StatusBadRequest, "INVALID_CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", "/v1/fnplot/evaluate", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			resp := decode[ErrorResponse](t, w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestHandlers_PlotLifecycle(t *testing.T) {
	svc := NewService(DefaultServiceConfig(), config.NewMemoryStore())
	router := setupTestRouter(svc)

	plot := createTestPlot(t, router, "")
	if len(plot.Functions) != 1 || plot.Functions[0].Source != fnspec.DefaultSource {
		t.Fatalf("expected one default function, got %+v", plot.Functions)
	}
	base := "/v1/fnplot/plots/" + plot.ID

	w := doRequest(t, router, "GET", base, "")
	if w.Code != http.StatusOK {
		t.Errorf("get plot: expected status %d, got %d", http.StatusOK, w.Code)
	}

	w = doRequest(t, router, "POST", base+"/functions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("add function: expected status %d, got %d", http.StatusCreated, w.Code)
	}
	added := decode[FunctionInfo](t, w)

	w = doRequest(t, router, "PUT", base+"/functions/"+added.ID, `{"source": "[(0, 2), (1, 3.5)]"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set function: expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if fn := decode[FunctionInfo](t, w); fn.Kind != "interpolated" {
		t.Errorf("expected interpolated, got %q", fn.Kind)
	}

	w = doRequest(t, router, "POST", base+"/functions/"+plot.Functions[0].ID+"/toggle", "")
	if toggled := decode[ToggleResponse](t, w); toggled.Shown {
		t.Error("expected function hidden after toggle")
	}

	w = doRequest(t, router, "PUT", base+"/domain", `{"left": 0, "right": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set domain: expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = doRequest(t, router, "PUT", base+"/settings", `{"quality": 2, "title_string": "points"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("settings: expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if updated := decode[PlotResponse](t, w); updated.Config.TitleString != "points" {
		t.Errorf("expected title 'points', got %q", updated.Config.TitleString)
	}

	w = doRequest(t, router, "GET", base+"/evaluate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("evaluate: expected status %d, got %d", http.StatusOK, w.Code)
	}
	eval := decode[Evaluation](t, w)
	if len(eval.Series) != 1 || eval.Min != 2 || eval.Max != 3.5 {
		t.Errorf("unexpected evaluation %+v", eval)
	}

	w = doRequest(t, router, "POST", base+"/save", "")
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = doRequest(t, router, "DELETE", base+"/functions/"+added.ID, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("remove function: expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	w = doRequest(t, router, "DELETE", base, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete plot: expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	w = doRequest(t, router, "GET", base, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, w.Code)
	}

	// The saved config seeds the next plot.
	next := createTestPlot(t, router, "")
	if next.Config.TitleString != "points" || len(next.Functions) != 2 {
		t.Errorf("expected saved config, got %+v", next.Config)
	}
}

func TestHandlers_HandleCreatePlot_WithConfig(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))

	plot := createTestPlot(t, router, `{"config": {"quality": 10, "functions": [{"source": "@@@", "shown": true}]}}`)
	if plot.Config.Quality != 10 {
		t.Errorf("expected quality 10, got %d", plot.Config.Quality)
	}
	if plot.Config.CanvasSize.Width != config.DefaultCanvasSize {
		t.Errorf("expected default canvas width, got %d", plot.Config.CanvasSize.Width)
	}
	if plot.Functions[0].Source != fnspec.DefaultSource {
		t.Errorf("expected fallback to default function, got %q", plot.Functions[0].Source)
	}

	w := doRequest(t, router, "POST", "/v1/fnplot/plots", `{"config": {"quality": 1}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "INVALID_CONFIG" {
		t.Errorf("expected code INVALID_CONFIG, got %q", resp.Code)
	}
}

func TestHandlers_HandleSetFunction_FormatError(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))
	plot := createTestPlot(t, router, `{"config": {"functions": [{"source": "x^2", "shown": false}]}}`)
	fid := plot.Functions[0].ID

	w := doRequest(t, router, "PUT", "/v1/fnplot/plots/"+plot.ID+"/functions/"+fid, `{"source": "x + y"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}

	resp := decode[FunctionErrorResponse](t, w)
	if resp.Code != "FORMAT_ERROR" {
		t.Errorf("expected code FORMAT_ERROR, got %q", resp.Code)
	}
	if resp.Function.ID != fid || resp.Function.Source != fnspec.DefaultSource || resp.Function.Shown {
		t.Errorf("expected entry reset to default and still hidden, got %+v", resp.Function)
	}
}

func TestHandlers_NotFound(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))
	plot := createTestPlot(t, router, "")

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode string
	}{
		{"get plot", "GET", "/v1/fnplot/plots/missing", "", "PLOT_NOT_FOUND"},
		{"evaluate plot", "GET", "/v1/fnplot/plots/missing/evaluate", "", "PLOT_NOT_FOUND"},
		{"toggle function", "POST", "/v1/fnplot/plots/" + plot.ID + "/functions/missing/toggle", "", "FUNCTION_NOT_FOUND"},
		{"set function", "PUT", "/v1/fnplot/plots/" + plot.ID + "/functions/missing", `{"source": "x"}`, "FUNCTION_NOT_FOUND"},
		{"remove function", "DELETE", "/v1/fnplot/plots/" + plot.ID + "/functions/missing", "", "FUNCTION_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, tt.method, tt.path, tt.body)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
			}
			if resp := decode[ErrorResponse](t, w); resp.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestHandlers_HandleSetDomain_Invalid(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))
	plot := createTestPlot(t, router, "")

	w := doRequest(t, router, "PUT", "/v1/fnplot/plots/"+plot.ID+"/domain", `{"left": 2, "right": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "INVALID_DOMAIN" {
		t.Errorf("expected code INVALID_DOMAIN, got %q", resp.Code)
	}

	w = doRequest(t, router, "PUT", "/v1/fnplot/plots/"+plot.ID+"/domain", `{"left": 100}`)
	if d := decode[config.Domain](t, w); d.Left != d.Right || d.Right != config.DefaultRight {
		t.Errorf("expected left capped at right, got %+v", d)
	}
}

func TestHandlers_HandleUpdateSettings_Invalid(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))
	plot := createTestPlot(t, router, "")

	w := doRequest(t, router, "PUT", "/v1/fnplot/plots/"+plot.ID+"/settings", `{"mesh": false, "canvas_width": 2}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "INVALID_SETTING" {
		t.Errorf("expected code INVALID_SETTING, got %q", resp.Code)
	}

	w = doRequest(t, router, "GET", "/v1/fnplot/plots/"+plot.ID, "")
	if got := decode[PlotResponse](t, w); !got.Config.Mesh {
		t.Error("expected mesh unchanged after rejected settings")
	}
}

func TestHandlers_HandleAddFunction_Limit(t *testing.T) {
	svc := NewService(ServiceConfig{MaxPlots: 1, MaxFunctions: 1, Workers: 1}, nil)
	router := setupTestRouter(svc)
	plot := createTestPlot(t, router, "")

	w := doRequest(t, router, "POST", "/v1/fnplot/plots/"+plot.ID+"/functions", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "LIMIT_REACHED" {
		t.Errorf("expected code LIMIT_REACHED, got %q", resp.Code)
	}

	w = doRequest(t, router, "POST", "/v1/fnplot/plots", "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d for plot limit, got %d", http.StatusConflict, w.Code)
	}
}

func TestHandlers_HandleSavePlot_NoStore(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig(), nil))
	plot := createTestPlot(t, router, "")

	w := doRequest(t, router, "POST", "/v1/fnplot/plots/"+plot.ID+"/save", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Code != "NO_STORE" {
		t.Errorf("expected code NO_STORE, got %q", resp.Code)
	}
}
