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

	"github.com/AleutianAI/fnplot/pkg/logging"
)

// LogCounter is a logging.LogExporter that counts log records by level in
// fnplot_log_records_total.
//
// Thread Safety: Safe for concurrent use.
type LogCounter struct {
	records metric.Int64Counter
}

// NewLogCounter creates the counter on meter.
func NewLogCounter(meter metric.Meter) (*LogCounter, error) {
	records, err := meter.Int64Counter(
		"fnplot_log_records_total",
		metric.WithDescription("Log records by level"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create log_records_total: %w", err)
	}
	return &LogCounter{records: records}, nil
}

// Export implements logging.LogExporter.
func (c *LogCounter) Export(ctx context.Context, entry logging.LogEntry) error {
	c.records.Add(ctx, 1, metric.WithAttributes(attribute.String("level", entry.Level.String())))
	return nil
}

// Flush implements logging.LogExporter. Counters need no flushing.
func (c *LogCounter) Flush(context.Context) error { return nil }

// Close implements logging.LogExporter.
func (c *LogCounter) Close() error { return nil }
