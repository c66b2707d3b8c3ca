// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package hmm

import "math"

// MostLikelyStates returns the most probable hidden state path for the
// observation sequence, together with the path's log-probability.
//
// Description:
//
//	Log-domain Viterbi decode. Ties between equally probable predecessors
//	resolve to the lowest state index, matching the classifier's
//	first-index argmax convention. An empty sequence, or a sequence no
//	state path can explain, returns a nil path and -Inf.
//
// Thread Safety: Safe for concurrent use; the input is not mutated.
func (m *Model) MostLikelyStates(sequence []int) ([]int, float64) {
	if len(sequence) == 0 {
		return nil, math.Inf(-1)
	}

	T := len(sequence)
	delta := make([]float64, m.states)
	next := make([]float64, m.states)
	back := make([][]int, T)

	for i := 0; i < m.states; i++ {
		delta[i] = m.logInit[i] + m.logEmitAt(i, sequence[0])
	}

	for t := 1; t < T; t++ {
		back[t] = make([]int, m.states)
		o := sequence[t]
		for j := 0; j < m.states; j++ {
			best := math.Inf(-1)
			arg := 0
			for i := 0; i < m.states; i++ {
				if score := delta[i] + m.logTrans[i][j]; score > best {
					best = score
					arg = i
				}
			}
			next[j] = best + m.logEmitAt(j, o)
			back[t][j] = arg
		}
		delta, next = next, delta
	}

	final := 0
	best := math.Inf(-1)
	for i, d := range delta {
		if d > best {
			best = d
			final = i
		}
	}
	if math.IsInf(best, -1) {
		return nil, best
	}

	path := make([]int, T)
	path[T-1] = final
	for t := T - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path, best
}
