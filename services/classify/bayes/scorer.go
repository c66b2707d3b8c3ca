// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bayes

// Rejected is the decision returned when a threshold model out-scores
// every class model: no class fits the input well enough.
const Rejected = -1

// Scorer is the capability every bank member must expose: the
// log-likelihood of an observation sequence under the model's learned
// distribution.
//
// Description:
//
//	LogLikelihood must be deterministic and side-effect-free for a fixed
//	model and sequence, and must not mutate the input slice. The
//	classifier calls it once per class per classification request; calls
//	for different classes carry no data dependency and may run
//	concurrently.
//
//	Scores are log-domain reals. -Inf means "impossible under this
//	model" and is handled exactly by the classifier. Non-finite values
//	other than -Inf (NaN, +Inf) are passed through unsanitized; producing
//	them is the model's bug, not the classifier's.
//
// Thread Safety: Implementations must be safe for concurrent
// LogLikelihood calls.
type Scorer[O any] interface {
	LogLikelihood(sequence []O) float64
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc[O any] func(sequence []O) float64

// LogLikelihood calls the wrapped function.
func (f ScorerFunc[O]) LogLikelihood(sequence []O) float64 {
	return f(sequence)
}
