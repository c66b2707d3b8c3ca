// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package hmm provides discrete hidden Markov models used as the per-class
// sequence scorers behind the bayes classifier.
//
// Models are fully parameterized at construction (initial, transition, and
// emission distributions); there is no training here. All scoring runs in
// log space so long sequences do not underflow.
package hmm

import (
	"errors"
	"fmt"
	"math"

	"github.com/AleutianAI/AleutianSequence/services/classify/bayes"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoStates indicates a model with an empty initial distribution.
	ErrNoStates = errors.New("model must have at least one state")

	// ErrNoSymbols indicates a model with an empty emission alphabet.
	ErrNoSymbols = errors.New("model must emit at least one symbol")

	// ErrMatrixShape indicates transition or emission matrices whose shape
	// does not match the state count.
	ErrMatrixShape = errors.New("matrix shape does not match state count")
)

// -----------------------------------------------------------------------------
// Model
// -----------------------------------------------------------------------------

// Model is a discrete hidden Markov model over an integer observation
// alphabet [0, Symbols).
//
// Description:
//
//	Parameters are stored in log space at construction time. Zero
//	probabilities become -Inf and flow through scoring exactly: a path
//	through a zero-probability transition or emission contributes nothing
//	to the likelihood.
//
// Thread Safety: Immutable after construction; safe for concurrent
// LogLikelihood and MostLikelyStates calls.
type Model struct {
	states  int
	symbols int

	logInit  []float64
	logTrans [][]float64
	logEmit  [][]float64
}

// NewModel builds a model from linear-space distributions.
//
// Inputs:
//
//	initial - Initial state distribution, length S > 0.
//	transitions - S x S state transition matrix; transitions[i][j] is the
//	              probability of moving from state i to state j.
//	emissions - S x K emission matrix over a K-symbol alphabet;
//	            emissions[i][o] is the probability of state i emitting o.
//
// Outputs:
//
//	*Model - The compiled model.
//	error - ErrNoStates, ErrNoSymbols, or ErrMatrixShape on malformed
//	        input. Probabilities are not checked for summing to one.
func NewModel(initial []float64, transitions, emissions [][]float64) (*Model, error) {
	states := len(initial)
	if states == 0 {
		return nil, ErrNoStates
	}
	if len(transitions) != states {
		return nil, fmt.Errorf("%w: %d transition rows for %d states", ErrMatrixShape, len(transitions), states)
	}
	if len(emissions) != states {
		return nil, fmt.Errorf("%w: %d emission rows for %d states", ErrMatrixShape, len(emissions), states)
	}

	symbols := len(emissions[0])
	if symbols == 0 {
		return nil, ErrNoSymbols
	}

	m := &Model{
		states:   states,
		symbols:  symbols,
		logInit:  logVector(initial),
		logTrans: make([][]float64, states),
		logEmit:  make([][]float64, states),
	}

	for i := 0; i < states; i++ {
		if len(transitions[i]) != states {
			return nil, fmt.Errorf("%w: transition row %d has %d columns", ErrMatrixShape, i, len(transitions[i]))
		}
		if len(emissions[i]) != symbols {
			return nil, fmt.Errorf("%w: emission row %d has %d columns", ErrMatrixShape, i, len(emissions[i]))
		}
		m.logTrans[i] = logVector(transitions[i])
		m.logEmit[i] = logVector(emissions[i])
	}

	return m, nil
}

// States returns the number of hidden states.
func (m *Model) States() int {
	return m.states
}

// Symbols returns the size of the observation alphabet.
func (m *Model) Symbols() int {
	return m.symbols
}

// LogLikelihood returns the log-probability of the observation sequence
// under the model, computed with the log-domain forward algorithm.
//
// Description:
//
//	The forward variable for each state is folded over the sequence using
//	the same stable LogAdd combine the classifier uses, then summed over
//	final states. An empty sequence and any observation outside
//	[0, Symbols) score -Inf.
//
// Thread Safety: Safe for concurrent use; the input is not mutated.
func (m *Model) LogLikelihood(sequence []int) float64 {
	if len(sequence) == 0 {
		return math.Inf(-1)
	}

	alpha := make([]float64, m.states)
	next := make([]float64, m.states)

	for i := 0; i < m.states; i++ {
		alpha[i] = m.logInit[i] + m.logEmitAt(i, sequence[0])
	}

	for _, o := range sequence[1:] {
		for j := 0; j < m.states; j++ {
			sum := math.Inf(-1)
			for i := 0; i < m.states; i++ {
				sum = bayes.LogAdd(sum, alpha[i]+m.logTrans[i][j])
			}
			next[j] = sum + m.logEmitAt(j, o)
		}
		alpha, next = next, alpha
	}

	return bayes.LogSumExp(alpha)
}

// logEmitAt returns the log emission probability of symbol o in state i,
// treating out-of-alphabet symbols as impossible.
func (m *Model) logEmitAt(i, o int) float64 {
	if o < 0 || o >= m.symbols {
		return math.Inf(-1)
	}
	return m.logEmit[i][o]
}

// logVector returns the element-wise natural log of v. Zeroes map to -Inf.
func logVector(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, p := range v {
		out[i] = math.Log(p)
	}
	return out
}

// Model satisfies the classifier's scoring capability for integer
// observation sequences.
var _ bayes.Scorer[int] = (*Model)(nil)
