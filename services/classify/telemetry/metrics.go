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
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the classification service.
//
// Description:
//
//	Standard counters and histograms for classification requests, scoring
//	latency, rejections, and bank lifecycle events. All metrics use the
//	"classify_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// RequestsTotal counts classification requests by bank and status.
	RequestsTotal metric.Int64Counter

	// ScoringDuration records end-to-end scoring duration in seconds.
	ScoringDuration metric.Float64Histogram

	// RejectionsTotal counts inputs the threshold model rejected, by bank.
	RejectionsTotal metric.Int64Counter

	// SequenceLength records the length of classified sequences.
	SequenceLength metric.Int64Histogram

	// BankReloadsTotal counts model bank loads and reloads by status.
	BankReloadsTotal metric.Int64Counter

	// BanksLoaded tracks the number of banks currently registered.
	BanksLoaded metric.Int64UpDownCounter

	// ErrorsTotal counts errors by type and component.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all metrics registered.
//
// Inputs:
//
//	meter - The OTel meter to register with.
//
// Outputs:
//
//	*Metrics - The metrics instance.
//	error - Non-nil if any metric registration fails.
//
// Thread Safety: Safe for concurrent use after creation.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RequestsTotal, err = meter.Int64Counter(
		"classify_requests_total",
		metric.WithDescription("Total classification requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_requests_total: %w", err)
	}

	m.ScoringDuration, err = meter.Float64Histogram(
		"classify_scoring_duration_seconds",
		metric.WithDescription("Classification scoring duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_scoring_duration_seconds: %w", err)
	}

	m.RejectionsTotal, err = meter.Int64Counter(
		"classify_rejections_total",
		metric.WithDescription("Inputs rejected by the threshold model"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_rejections_total: %w", err)
	}

	m.SequenceLength, err = meter.Int64Histogram(
		"classify_sequence_length",
		metric.WithDescription("Observation sequence length"),
		metric.WithUnit("{observation}"),
		metric.WithExplicitBucketBoundaries(1, 4, 16, 64, 256, 1024, 4096),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_sequence_length: %w", err)
	}

	m.BankReloadsTotal, err = meter.Int64Counter(
		"classify_bank_reloads_total",
		metric.WithDescription("Model bank loads and reloads"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_bank_reloads_total: %w", err)
	}

	m.BanksLoaded, err = meter.Int64UpDownCounter(
		"classify_banks_loaded",
		metric.WithDescription("Model banks currently registered"),
		metric.WithUnit("{bank}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_banks_loaded: %w", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"classify_errors_total",
		metric.WithDescription("Total errors by type and component"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create classify_errors_total: %w", err)
	}

	return m, nil
}
