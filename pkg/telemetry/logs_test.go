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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/AleutianAI/fnplot/pkg/logging"
)

func TestLogCounter_CountsRecords(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := NewLogCounter(mp.Meter("test"))
	require.NoError(t, err)

	logger := logging.New(logging.Config{Level: logging.LevelInfo, Quiet: true, Exporter: counter})
	logger.Debug("dropped")
	logger.Info("kept")
	logger.Warn("kept")
	require.NoError(t, logger.Close())

	assert.Equal(t, int64(2), sumOf(t, reader, "fnplot_log_records_total"))
}
