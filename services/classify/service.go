// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianSequence/services/classify/bayes"
	"github.com/AleutianAI/AleutianSequence/services/classify/telemetry"
)

const tracerName = "classify"

// Service is the model bank registry and scoring front end.
//
// Description:
//
//	Holds compiled banks keyed by name and runs the scoring pipeline
//	against them. Classification takes the read lock for its whole
//	duration so that prior and sensitivity updates, which take the
//	write lock, never interleave with an in-flight scoring pass.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	log     *slog.Logger
	metrics *telemetry.Metrics

	mu    sync.RWMutex
	banks map[string]*Bank
}

// NewService creates an empty service.
//
// Inputs:
//
//	log - Structured logger. Nil falls back to slog.Default().
//	metrics - Service metrics. Nil disables metric recording.
func NewService(log *slog.Logger, metrics *telemetry.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		log:     log,
		metrics: metrics,
		banks:   make(map[string]*Bank),
	}
}

// Register adds or replaces a bank under its name.
func (s *Service) Register(bank *Bank) {
	s.mu.Lock()
	_, replaced := s.banks[bank.Name]
	s.banks[bank.Name] = bank
	s.mu.Unlock()

	if s.metrics != nil && !replaced {
		s.metrics.BanksLoaded.Add(context.Background(), 1)
	}
	s.log.Info("bank registered",
		"bank", bank.Name,
		"classes", len(bank.Labels),
		"symbols", bank.Symbols,
		"replaced", replaced,
	)
}

// Remove drops a bank from the registry. Returns false when no bank with
// that name was registered.
func (s *Service) Remove(name string) bool {
	s.mu.Lock()
	_, ok := s.banks[name]
	delete(s.banks, name)
	s.mu.Unlock()

	if ok {
		if s.metrics != nil {
			s.metrics.BanksLoaded.Add(context.Background(), -1)
		}
		s.log.Info("bank removed", "bank", name)
	}
	return ok
}

// LoadFile compiles one bank definition file and registers the result.
//
// Outputs:
//
//	*Bank - The registered bank.
//	error - Non-nil if loading or compilation fails.
func (s *Service) LoadFile(ctx context.Context, path string) (*Bank, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.LoadFile",
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	bank, err := LoadBankFile(path)
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordReload(ctx, "error")
		return nil, err
	}

	s.Register(bank)
	s.recordReload(ctx, "ok")
	return bank, nil
}

// LoadDir loads every *.yaml and *.yml bank definition in dir.
//
// Description:
//
//	Files are loaded in lexical order so a name collision resolves
//	deterministically (last file wins). A single bad file fails the
//	whole load; banks registered before the failure stay registered.
//
// Outputs:
//
//	int - Number of banks loaded.
//	error - Non-nil if the directory cannot be read or any file fails.
func (s *Service) LoadDir(ctx context.Context, dir string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.LoadDir",
		trace.WithAttributes(attribute.String("dir", dir)))
	defer span.End()

	entries, err := os.ReadDir(dir)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("read model dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		if _, err := s.LoadFile(ctx, p); err != nil {
			telemetry.RecordError(span, err)
			return 0, err
		}
	}

	s.log.Info("model directory loaded", "dir", dir, "banks", len(paths))
	return len(paths), nil
}

// Banks returns summaries of all registered banks, sorted by name.
func (s *Service) Banks() []BankSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BankSummary, 0, len(s.banks))
	for _, b := range s.banks {
		out = append(out, b.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bank returns the summary of one bank.
func (s *Service) Bank(name string) (BankSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.banks[name]
	if !ok {
		return BankSummary{}, fmt.Errorf("%w: %q", ErrBankNotFound, name)
	}
	return b.Summary(), nil
}

// Posteriors scores a sequence against a bank and returns the full
// classification result.
//
// Outputs:
//
//	*ClassificationResult - Decision, posterior vectors, and probability.
//	error - ErrBankNotFound, or a context error from cancellation.
func (s *Service) Posteriors(ctx context.Context, name string, sequence []int) (*ClassificationResult, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.Posteriors",
		trace.WithAttributes(
			attribute.String("bank", name),
			attribute.Int("sequence_length", len(sequence)),
		))
	defer span.End()

	start := time.Now()

	s.mu.RLock()
	b, ok := s.banks[name]
	if !ok {
		s.mu.RUnlock()
		err := fmt.Errorf("%w: %q", ErrBankNotFound, name)
		telemetry.RecordError(span, err)
		s.recordRequest(ctx, name, "not_found", len(sequence), time.Since(start))
		return nil, err
	}

	post, decision, err := b.classifier.PosteriorsParallel(ctx, sequence)
	labels := b.Labels
	s.mu.RUnlock()

	if err != nil {
		telemetry.RecordError(span, err)
		s.recordRequest(ctx, name, "cancelled", len(sequence), time.Since(start))
		return nil, err
	}

	result := &ClassificationResult{
		Bank:          name,
		Decision:      decision,
		Rejected:      decision == bayes.Rejected,
		LogPosteriors: clampNegInf(post),
		Posteriors:    expVector(post),
	}
	if result.Rejected {
		result.Probability = rejectionProbability(post)
		if s.metrics != nil {
			s.metrics.RejectionsTotal.Add(ctx, 1,
				metric.WithAttributes(attribute.String("bank", name)))
		}
	} else {
		result.Label = labels[decision]
		result.Probability = math.Exp(post[decision])
	}

	s.recordRequest(ctx, name, "ok", len(sequence), time.Since(start))
	s.log.Debug("sequence classified",
		"bank", name,
		"decision", result.Decision,
		"label", result.Label,
		"rejected", result.Rejected,
		"probability", result.Probability,
		"sequence_length", len(sequence),
	)
	return result, nil
}

// Likelihood returns the raw log-likelihood of a sequence under one class
// model, before priors are applied.
//
// Description:
//
//	When class is nil the decided class is scored; if the decision is a
//	rejection the threshold model's weighted score is returned with
//	Class set to the rejection sentinel.
//
// Outputs:
//
//	*LikelihoodResult - The class and its raw log-likelihood.
//	error - ErrBankNotFound, ErrClassOutOfRange, or a context error.
func (s *Service) Likelihood(ctx context.Context, name string, sequence []int, class *int) (*LikelihoodResult, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.Likelihood",
		trace.WithAttributes(attribute.String("bank", name)))
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.banks[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrBankNotFound, name)
		telemetry.RecordError(span, err)
		return nil, err
	}
	clf := b.classifier

	result := &LikelihoodResult{Bank: name}
	switch {
	case class != nil:
		if *class < 0 || *class >= clf.Classes() {
			err := fmt.Errorf("%w: %d of %d", ErrClassOutOfRange, *class, clf.Classes())
			telemetry.RecordError(span, err)
			return nil, err
		}
		result.Class = *class
		result.Label = b.Labels[*class]
		result.LogLikelihood = clf.Model(*class).LogLikelihood(sequence)
	default:
		decision := clf.Decide(sequence)
		if decision == bayes.Rejected {
			result.Class = bayes.Rejected
			result.LogLikelihood = clf.Threshold().LogLikelihood(sequence) + math.Log(clf.Sensitivity())
		} else {
			result.Class = decision
			result.Label = b.Labels[decision]
			result.LogLikelihood = clf.Model(decision).LogLikelihood(sequence)
		}
	}

	if math.IsInf(result.LogLikelihood, -1) {
		result.LogLikelihood = -math.MaxFloat64
	}
	return result, ctx.Err()
}

// SetPriors replaces a bank's prior distribution.
//
// Outputs:
//
//	error - ErrBankNotFound or bayes.ErrPriorLength.
func (s *Service) SetPriors(ctx context.Context, name string, priors []float64) error {
	_, span := telemetry.StartSpan(ctx, tracerName, "Service.SetPriors",
		trace.WithAttributes(attribute.String("bank", name)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banks[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrBankNotFound, name)
		telemetry.RecordError(span, err)
		return err
	}
	if err := b.classifier.SetPriors(priors); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.log.Info("priors updated", "bank", name, "priors", priors)
	return nil
}

// SetSensitivity replaces a bank's rejection sensitivity.
//
// Outputs:
//
//	error - ErrBankNotFound, ErrNoThreshold, or ErrInvalidSensitivity.
func (s *Service) SetSensitivity(ctx context.Context, name string, sensitivity float64) error {
	_, span := telemetry.StartSpan(ctx, tracerName, "Service.SetSensitivity",
		trace.WithAttributes(
			attribute.String("bank", name),
			attribute.Float64("sensitivity", sensitivity),
		))
	defer span.End()

	if sensitivity <= 0 || math.IsNaN(sensitivity) || math.IsInf(sensitivity, 1) {
		err := fmt.Errorf("%w: %v", ErrInvalidSensitivity, sensitivity)
		telemetry.RecordError(span, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.banks[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrBankNotFound, name)
		telemetry.RecordError(span, err)
		return err
	}
	if b.classifier.Threshold() == nil {
		err := fmt.Errorf("%w: %q", ErrNoThreshold, name)
		telemetry.RecordError(span, err)
		return err
	}

	b.classifier.SetSensitivity(sensitivity)
	s.log.Info("sensitivity updated", "bank", name, "sensitivity", sensitivity)
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Service) recordRequest(ctx context.Context, bank, status string, seqLen int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RequestsTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("bank", bank),
			attribute.String("status", status),
		))
	s.metrics.ScoringDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("bank", bank)))
	s.metrics.SequenceLength.Record(ctx, int64(seqLen))
}

func (s *Service) recordReload(ctx context.Context, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.BankReloadsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)))
}

// clampNegInf copies the log-posterior vector, replacing -Inf with the
// most negative finite float64. encoding/json cannot represent -Inf.
func clampNegInf(post []float64) []float64 {
	out := make([]float64, len(post))
	for i, lp := range post {
		if math.IsInf(lp, -1) {
			out[i] = -math.MaxFloat64
		} else {
			out[i] = lp
		}
	}
	return out
}

// expVector exponentiates log-posteriors into linear probabilities.
func expVector(post []float64) []float64 {
	out := make([]float64, len(post))
	for i, lp := range post {
		out[i] = math.Exp(lp)
	}
	return out
}

// rejectionProbability is the posterior mass of the rejection hypothesis.
func rejectionProbability(post []float64) float64 {
	var sum float64
	for _, lp := range post {
		sum += math.Exp(lp)
	}
	return 1 - sum
}
