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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestNewMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "prometheus"

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(context.Background())

	meter := otel.Meter("test_metrics")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	if metrics.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if metrics.ScoringDuration == nil {
		t.Error("ScoringDuration is nil")
	}
	if metrics.RejectionsTotal == nil {
		t.Error("RejectionsTotal is nil")
	}
	if metrics.SequenceLength == nil {
		t.Error("SequenceLength is nil")
	}
	if metrics.BankReloadsTotal == nil {
		t.Error("BankReloadsTotal is nil")
	}
	if metrics.BanksLoaded == nil {
		t.Error("BanksLoaded is nil")
	}
	if metrics.ErrorsTotal == nil {
		t.Error("ErrorsTotal is nil")
	}
}

func TestMetricsRecord(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "prometheus"

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(context.Background())

	metrics, err := NewMetrics(otel.Meter("test_metrics_record"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	// Recording must not panic.
	ctx := context.Background()
	metrics.RequestsTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("bank", "gestures"),
			attribute.String("status", "ok"),
		),
	)
	metrics.ScoringDuration.Record(ctx, 0.0042,
		metric.WithAttributes(attribute.String("bank", "gestures")),
	)
	metrics.RejectionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("bank", "gestures")),
	)
	metrics.SequenceLength.Record(ctx, 17)
	metrics.BanksLoaded.Add(ctx, 1)
}
