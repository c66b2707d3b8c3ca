// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hmm

import (
	"errors"
	"math"
	"testing"
)

// twoStateModel is a small hand-checkable model over a binary alphabet.
func twoStateModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(
		[]float64{0.6, 0.4},
		[][]float64{
			{0.7, 0.3},
			{0.4, 0.6},
		},
		[][]float64{
			{0.9, 0.1},
			{0.2, 0.8},
		},
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

// bruteForceLikelihood enumerates every state path in linear space.
// Exponential, only usable for tiny models and short sequences.
func bruteForceLikelihood(initial []float64, trans, emit [][]float64, seq []int) float64 {
	states := len(initial)
	var walk func(t, state int, prob float64) float64
	walk = func(t, state int, prob float64) float64 {
		prob *= emit[state][seq[t]]
		if t == len(seq)-1 {
			return prob
		}
		var total float64
		for next := 0; next < states; next++ {
			total += walk(t+1, next, prob*trans[state][next])
		}
		return total
	}

	var total float64
	for s := 0; s < states; s++ {
		total += walk(0, s, initial[s])
	}
	return total
}

func TestNewModelValidation(t *testing.T) {
	tests := []struct {
		name    string
		initial []float64
		trans   [][]float64
		emit    [][]float64
		wantErr error
	}{
		{
			name:    "no states",
			initial: nil,
			trans:   nil,
			emit:    nil,
			wantErr: ErrNoStates,
		},
		{
			name:    "transition row count mismatch",
			initial: []float64{1},
			trans:   [][]float64{{1}, {1}},
			emit:    [][]float64{{1}},
			wantErr: ErrMatrixShape,
		},
		{
			name:    "non-square transitions",
			initial: []float64{0.5, 0.5},
			trans:   [][]float64{{1}, {0.5, 0.5}},
			emit:    [][]float64{{1}, {1}},
			wantErr: ErrMatrixShape,
		},
		{
			name:    "empty alphabet",
			initial: []float64{1},
			trans:   [][]float64{{1}},
			emit:    [][]float64{{}},
			wantErr: ErrNoSymbols,
		},
		{
			name:    "ragged emissions",
			initial: []float64{0.5, 0.5},
			trans:   [][]float64{{0.5, 0.5}, {0.5, 0.5}},
			emit:    [][]float64{{0.5, 0.5}, {1}},
			wantErr: ErrMatrixShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.initial, tt.trans, tt.emit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewModel error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogLikelihoodMatchesBruteForce(t *testing.T) {
	initial := []float64{0.6, 0.4}
	trans := [][]float64{
		{0.7, 0.3},
		{0.4, 0.6},
	}
	emit := [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
	}
	m := twoStateModel(t)

	sequences := [][]int{
		{0},
		{1},
		{0, 1},
		{0, 0, 1, 1},
		{1, 0, 1, 0, 1},
		{0, 0, 0, 0, 0, 0},
	}

	for _, seq := range sequences {
		want := math.Log(bruteForceLikelihood(initial, trans, emit, seq))
		got := m.LogLikelihood(seq)
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("LogLikelihood(%v) = %v, want %v", seq, got, want)
		}
	}
}

func TestLogLikelihoodDeterministicChain(t *testing.T) {
	// One state per symbol, forced left-to-right emissions: the model
	// accepts exactly the sequence 0,1 repeated.
	m, err := NewModel(
		[]float64{1, 0},
		[][]float64{
			{0, 1},
			{1, 0},
		},
		[][]float64{
			{1, 0},
			{0, 1},
		},
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	if got := m.LogLikelihood([]int{0, 1, 0, 1}); got != 0 {
		t.Errorf("accepting sequence scored %v, want 0 (log 1)", got)
	}
	if got := m.LogLikelihood([]int{1, 0}); !math.IsInf(got, -1) {
		t.Errorf("impossible sequence scored %v, want -Inf", got)
	}
}

func TestLogLikelihoodEdgeCases(t *testing.T) {
	m := twoStateModel(t)

	if got := m.LogLikelihood(nil); !math.IsInf(got, -1) {
		t.Errorf("empty sequence scored %v, want -Inf", got)
	}
	if got := m.LogLikelihood([]int{0, 5}); !math.IsInf(got, -1) {
		t.Errorf("out-of-alphabet symbol scored %v, want -Inf", got)
	}
	if got := m.LogLikelihood([]int{-1}); !math.IsInf(got, -1) {
		t.Errorf("negative symbol scored %v, want -Inf", got)
	}
}

func TestLogLikelihoodLongSequenceNoUnderflow(t *testing.T) {
	m := twoStateModel(t)

	// A 5000-observation sequence is far below linear float range, but the
	// log-domain result must stay finite.
	seq := make([]int, 5000)
	for i := range seq {
		seq[i] = i % 2
	}
	got := m.LogLikelihood(seq)
	if math.IsInf(got, -1) || math.IsNaN(got) {
		t.Fatalf("LogLikelihood(long) = %v, want finite", got)
	}
	if got >= 0 {
		t.Fatalf("LogLikelihood(long) = %v, want negative", got)
	}
}

func TestModelAccessors(t *testing.T) {
	m := twoStateModel(t)
	if m.States() != 2 {
		t.Errorf("States() = %d, want 2", m.States())
	}
	if m.Symbols() != 2 {
		t.Errorf("Symbols() = %d, want 2", m.Symbols())
	}
}
