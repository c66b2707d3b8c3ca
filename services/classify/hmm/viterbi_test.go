// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hmm

import (
	"math"
	"testing"
)

func TestMostLikelyStatesDeterministic(t *testing.T) {
	// Forced cycle 0 -> 1 -> 0 with state-indexed emissions: the decoded
	// path must mirror the observations.
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

	seq := []int{0, 1, 0, 1, 0}
	path, logProb := m.MostLikelyStates(seq)
	if logProb != 0 {
		t.Errorf("logProb = %v, want 0", logProb)
	}
	for i, s := range path {
		if s != seq[i] {
			t.Errorf("path[%d] = %d, want %d", i, s, seq[i])
			break
		}
	}
}

func TestMostLikelyStatesPrefersLikelyPath(t *testing.T) {
	// State 0 strongly emits symbol 0, state 1 strongly emits symbol 1.
	m, err := NewModel(
		[]float64{0.5, 0.5},
		[][]float64{
			{0.8, 0.2},
			{0.2, 0.8},
		},
		[][]float64{
			{0.95, 0.05},
			{0.05, 0.95},
		},
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	path, logProb := m.MostLikelyStates([]int{0, 0, 1, 1})
	want := []int{0, 0, 1, 1}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
	if math.IsInf(logProb, -1) {
		t.Errorf("logProb = -Inf for feasible path")
	}

	// The single best path can never beat the total likelihood.
	if total := m.LogLikelihood([]int{0, 0, 1, 1}); logProb > total {
		t.Errorf("viterbi logProb %v exceeds forward total %v", logProb, total)
	}
}

func TestMostLikelyStatesInfeasible(t *testing.T) {
	m, err := NewModel(
		[]float64{1},
		[][]float64{{1}},
		[][]float64{{1, 0}}, // symbol 1 never emitted
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	path, logProb := m.MostLikelyStates([]int{1})
	if path != nil {
		t.Errorf("path = %v, want nil for infeasible sequence", path)
	}
	if !math.IsInf(logProb, -1) {
		t.Errorf("logProb = %v, want -Inf", logProb)
	}
}

func TestMostLikelyStatesEmpty(t *testing.T) {
	m := twoStateModel(t)
	path, logProb := m.MostLikelyStates(nil)
	if path != nil || !math.IsInf(logProb, -1) {
		t.Errorf("MostLikelyStates(nil) = (%v, %v), want (nil, -Inf)", path, logProb)
	}
}
