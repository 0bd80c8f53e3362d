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
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests once limiter has no tokens left.
//
// Description:
//
//	Uses a single token bucket for the whole server. A rejected request
//	gets 429 with code RATE_LIMITED and a Retry-After header in whole
//	seconds. A nil limiter disables limiting.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		r := limiter.Reserve()
		if !r.OK() {
			abortRateLimited(c, time.Second)
			return
		}
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			abortRateLimited(c, delay)
			return
		}
		c.Next()
	}
}

func abortRateLimited(c *gin.Context, delay time.Duration) {
	seconds := int(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	slog.Warn("Rate limit exceeded",
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"retry_after_s", seconds)

	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error: "Too many requests",
		Code:  "RATE_LIMITED",
	})
}
