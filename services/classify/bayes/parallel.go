// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bayes

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// PosteriorsParallel is Posteriors with the per-model evaluations fanned
// out across goroutines.
//
// Description:
//
//	The N class evaluations plus the optional threshold evaluation have no
//	data dependencies, so for expensive models they run concurrently. The
//	reduction (argmax, log-sum-exp fold, threshold comparison,
//	normalization) runs after the barrier in the same left-to-right order
//	as the serial path, so numeric results are bit-identical to
//	Posteriors.
//
// Inputs:
//
//	ctx - Cancels evaluations that have not started yet. Scorers already
//	      running are not interrupted; they are pure and non-blocking.
//	sequence - The observation sequence. Not mutated.
//
// Outputs:
//
//	[]float64 - Log-posteriors of length Classes().
//	int - Class index or Rejected.
//	error - ctx.Err() if the context was cancelled, nil otherwise.
//
// Thread Safety: Safe for concurrent use with other classification calls.
func (c *Classifier[O]) PosteriorsParallel(ctx context.Context, sequence []O) ([]float64, int, error) {
	raw := make([]float64, len(c.models))
	g, ctx := errgroup.WithContext(ctx)

	for i, model := range c.models {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw[i] = model.LogLikelihood(sequence) + math.Log(c.priors[i])
			return nil
		})
	}

	var rejection float64
	hasThreshold := c.threshold != nil
	if hasThreshold {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rejection = c.threshold.LogLikelihood(sequence) + math.Log(c.sensitivity)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	decision := 0
	best := math.Inf(-1)
	lnsum := math.Inf(-1)
	for i, r := range raw {
		if r > best {
			best = r
			decision = i
		}
		lnsum = LogAdd(lnsum, r)
	}

	if hasThreshold {
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

	return raw, decision, nil
}
