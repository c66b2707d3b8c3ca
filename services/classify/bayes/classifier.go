// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bayes

import (
	"errors"
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoModels indicates construction with an empty model bank.
	ErrNoModels = errors.New("model bank must contain at least one model")

	// ErrPriorLength indicates a priors vector whose length does not match
	// the number of classes.
	ErrPriorLength = errors.New("priors length must equal class count")

	// ErrBufferLength indicates a reuse buffer whose length does not match
	// the number of classes.
	ErrBufferLength = errors.New("buffer length must equal class count")
)

// -----------------------------------------------------------------------------
// Classifier
// -----------------------------------------------------------------------------

// Classifier scores observation sequences against a fixed bank of per-class
// sequence models and decides a class label, or Rejected when a threshold
// model out-scores every class.
//
// Description:
//
//	The bank is an ordered collection of exactly one Scorer per class; the
//	index is the canonical class identifier and never changes over the
//	classifier's lifetime. Priors default to uniform 1/N and are combined
//	additively in log space. Priors are taken as supplied: the classifier
//	performs no normalization, and a zero prior mathematically removes its
//	class from contention rather than raising an error.
//
//	The optional threshold model is not tied to any class. Its raw
//	log-likelihood, weighted by log(sensitivity), competes against the best
//	raw class score; a strictly greater threshold score rejects the input.
//	The comparison deliberately uses pre-normalization scores.
//
// Thread Safety: Classification calls (Posteriors, Decide, Probability,
// and friends) are safe to run concurrently with each other. Configuration
// setters (SetPriors, SetThreshold, SetSensitivity) are NOT safe to run
// concurrently with classification; callers must serialize reconfiguration
// against in-flight calls. The classifier adds no internal locking.
type Classifier[O any] struct {
	models      []Scorer[O]
	priors      []float64
	threshold   Scorer[O]
	sensitivity float64
}

// New creates a classifier over the given model bank.
//
// Inputs:
//
//	models - One scorer per class, in class-index order. Must be non-empty.
//	         The slice is copied; the scorers themselves are shared.
//
// Outputs:
//
//	*Classifier[O] - Classifier with uniform priors, no threshold model,
//	                 and sensitivity 1.
//	error - ErrNoModels if the bank is empty.
func New[O any](models []Scorer[O]) (*Classifier[O], error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}

	bank := make([]Scorer[O], len(models))
	copy(bank, models)

	priors := make([]float64, len(models))
	uniform := 1.0 / float64(len(models))
	for i := range priors {
		priors[i] = uniform
	}

	return &Classifier[O]{
		models:      bank,
		priors:      priors,
		sensitivity: 1,
	}, nil
}

// Classes returns the number of classes in the bank.
func (c *Classifier[O]) Classes() int {
	return len(c.models)
}

// Model returns the scorer for the given class index.
//
// The index must be in [0, Classes()).
func (c *Classifier[O]) Model(class int) Scorer[O] {
	return c.models[class]
}

// Priors returns a copy of the per-class prior probabilities.
func (c *Classifier[O]) Priors() []float64 {
	out := make([]float64, len(c.priors))
	copy(out, c.priors)
	return out
}

// SetPriors replaces the per-class priors.
//
// Description:
//
//	The vector is copied. Beyond the length check no validation is
//	performed: the priors need not sum to one, and a zero entry excludes
//	its class from every future decision. Supplying a proper probability
//	vector is the caller's responsibility.
//
// Outputs:
//
//	error - ErrPriorLength if len(priors) != Classes().
//
// Thread Safety: Must not race with in-flight classification calls.
func (c *Classifier[O]) SetPriors(priors []float64) error {
	if len(priors) != len(c.models) {
		return fmt.Errorf("%w: got %d, want %d", ErrPriorLength, len(priors), len(c.models))
	}
	copy(c.priors, priors)
	return nil
}

// Threshold returns the configured threshold model, or nil when rejection
// is disabled.
func (c *Classifier[O]) Threshold() Scorer[O] {
	return c.threshold
}

// SetThreshold configures the rejection hypothesis. A nil scorer disables
// rejection entirely; Decide then never returns Rejected.
//
// Thread Safety: Must not race with in-flight classification calls.
func (c *Classifier[O]) SetThreshold(threshold Scorer[O]) {
	c.threshold = threshold
}

// Sensitivity returns the threshold sensitivity weight.
func (c *Classifier[O]) Sensitivity() float64 {
	return c.sensitivity
}

// SetSensitivity sets the multiplicative weight applied to the threshold
// model's score, log-additively, before comparison. Values above 1 make
// rejection more aggressive, values below 1 less. Default is 1.
//
// Thread Safety: Must not race with in-flight classification calls.
func (c *Classifier[O]) SetSensitivity(sensitivity float64) {
	c.sensitivity = sensitivity
}

// -----------------------------------------------------------------------------
// Scoring & decision
// -----------------------------------------------------------------------------

// Posteriors scores the sequence against every class model and returns the
// log-posterior vector together with the decided class.
//
// Description:
//
//	This is the primary entry point; every other query is derived from it.
//	For each class i, raw[i] = model_i.LogLikelihood(x) + log(prior_i).
//	The decision is the first index achieving the maximum raw score. The
//	log-domain normalizer is the left-to-right LogAdd fold over raw. When
//	a threshold model is configured, its weighted score competes against
//	the best raw class score (strictly greater rejects) and is folded into
//	the normalizer so the posterior mass accounts for the rejection
//	hypothesis.
//
//	If the normalizer is -Inf (every model, and the threshold if present,
//	scored the sequence impossible) normalization is skipped and the
//	all--Inf vector is returned as-is with the decision the argmax rule
//	yields. That output is degenerate but valid, not an error.
//
// Inputs:
//
//	sequence - The observation sequence. Not mutated.
//
// Outputs:
//
//	[]float64 - Log-posteriors, always of length Classes() regardless of
//	            the decision.
//	int - Class index in [0, Classes()), or Rejected.
//
// Thread Safety: Safe for concurrent use with other classification calls.
func (c *Classifier[O]) Posteriors(sequence []O) ([]float64, int) {
	post := make([]float64, len(c.models))
	decision := c.posteriorsInto(post, sequence)
	return post, decision
}

// PosteriorsInto is the allocation-free variant of Posteriors: it writes
// the log-posteriors into dst instead of allocating. Numeric results are
// identical to Posteriors.
//
// Outputs:
//
//	int - The decision, as in Posteriors.
//	error - ErrBufferLength if len(dst) != Classes().
func (c *Classifier[O]) PosteriorsInto(dst []float64, sequence []O) (int, error) {
	if len(dst) != len(c.models) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBufferLength, len(dst), len(c.models))
	}
	return c.posteriorsInto(dst, sequence), nil
}

// Decide runs the full scoring pipeline and returns only the decision:
// a class index, or Rejected.
func (c *Classifier[O]) Decide(sequence []O) int {
	post := make([]float64, len(c.models))
	return c.posteriorsInto(post, sequence)
}

// Probability returns the posterior probability mass of the decided class.
//
// When the decision is Rejected the returned value is the complement of
// all class posteriors, i.e. the mass assigned to the rejection
// hypothesis.
func (c *Classifier[O]) Probability(sequence []O) float64 {
	post, decision := c.Posteriors(sequence)
	if decision == Rejected {
		return rejectionMass(post)
	}
	return math.Exp(post[decision])
}

// ProbabilityOf returns the posterior probability of a caller-specified
// class, regardless of which class was decided. The class index must be
// in [0, Classes()).
func (c *Classifier[O]) ProbabilityOf(sequence []O, class int) float64 {
	post, _ := c.Posteriors(sequence)
	return math.Exp(post[class])
}

// LogLikelihood returns log(Probability(sequence)): the log-posterior of
// the decided class, or the log of the rejection complement when the
// decision is Rejected.
func (c *Classifier[O]) LogLikelihood(sequence []O) float64 {
	post, decision := c.Posteriors(sequence)
	if decision == Rejected {
		return math.Log(rejectionMass(post))
	}
	return post[decision]
}

// LogLikelihoodOf returns the log-posterior of a caller-specified class,
// regardless of the decision. The class index must be in [0, Classes()).
func (c *Classifier[O]) LogLikelihoodOf(sequence []O, class int) float64 {
	post, _ := c.Posteriors(sequence)
	return post[class]
}

// posteriorsInto runs the scoring pipeline, writing log-posteriors into
// raw and returning the decision. raw must have length len(c.models).
func (c *Classifier[O]) posteriorsInto(raw []float64, sequence []O) int {
	decision := 0
	best := math.Inf(-1)
	lnsum := math.Inf(-1)

	for i, model := range c.models {
		raw[i] = model.LogLikelihood(sequence) + math.Log(c.priors[i])
		if raw[i] > best {
			best = raw[i]
			decision = i
		}
		lnsum = LogAdd(lnsum, raw[i])
	}

	if c.threshold != nil {
		rejection := c.threshold.LogLikelihood(sequence) + math.Log(c.sensitivity)
		// Raw scores on both sides: the weighted threshold score competes
		// against the unnormalized best class score.
		if rejection > best {
			decision = Rejected
		}
		lnsum = LogAdd(lnsum, rejection)
	}

	if !math.IsInf(lnsum, -1) {
		for i := range raw {
			raw[i] -= lnsum
		}
	}

	return decision
}

// rejectionMass returns 1 - sum(exp(post)): the probability mass the
// normalized distribution assigns to the rejection hypothesis.
func rejectionMass(post []float64) float64 {
	var sum float64
	for _, lp := range post {
		sum += math.Exp(lp)
	}
	return 1 - sum
}
