// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bayes implements multi-class sequence classification over a bank
// of generative sequence models.
//
// Each class is represented by one model exposing a single capability:
// the log-likelihood of an observation sequence. The classifier combines
// those scores with per-class priors, normalizes in log space with a
// numerically stable log-sum-exp, and returns calibrated class posteriors
// together with a decision.
//
// An optional threshold model acts as a competing "none of the above"
// hypothesis: when its weighted log-likelihood strictly exceeds the best
// class score, the input is rejected and the decision is Rejected (-1).
// The sensitivity weight tunes how aggressive rejection is.
//
// All aggregation happens in log space. Sequence likelihoods underflow
// linear floating point for even moderately long sequences, so scores are
// only exponentiated at the very end for presentation.
//
// This package is pure scoring and decision logic. Training, feature
// extraction, and model persistence live elsewhere.
package bayes
