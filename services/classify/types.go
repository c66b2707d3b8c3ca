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

// ClassifyRequest is the request body for posterior, decision, and
// likelihood endpoints.
type ClassifyRequest struct {
	// Sequence is the observation sequence encoded as alphabet symbol
	// indices.
	Sequence []int `json:"sequence" binding:"required"`
}

// LikelihoodRequest asks for the log-likelihood of a sequence under one
// class model. When Class is nil the decided class is used.
type LikelihoodRequest struct {
	Sequence []int `json:"sequence" binding:"required"`
	Class    *int  `json:"class,omitempty"`
}

// SetPriorsRequest replaces a bank's prior distribution.
type SetPriorsRequest struct {
	Priors []float64 `json:"priors" binding:"required,min=1,dive,gte=0"`
}

// SetSensitivityRequest replaces a bank's rejection sensitivity.
type SetSensitivityRequest struct {
	Sensitivity float64 `json:"sensitivity" binding:"required,gt=0"`
}

// ClassificationResult holds the full output of one scoring pass.
//
// Description:
//
//	Decision is the winning class index, or -1 when the threshold model
//	rejected the input. LogPosteriors are normalized log-domain
//	posteriors per class; Posteriors are the same values exponentiated.
//	Probability is the posterior mass of the decision: the decided
//	class's posterior, or the rejection mass 1 - sum(posteriors) on
//	rejection.
type ClassificationResult struct {
	Bank          string    `json:"bank"`
	Decision      int       `json:"decision"`
	Label         string    `json:"label,omitempty"`
	Rejected      bool      `json:"rejected"`
	Probability   float64   `json:"probability"`
	LogPosteriors []float64 `json:"log_posteriors"`
	Posteriors    []float64 `json:"posteriors"`
}

// LikelihoodResult holds the raw log-likelihood of a sequence under one
// class model, before priors are applied.
type LikelihoodResult struct {
	Bank          string  `json:"bank"`
	Class         int     `json:"class"`
	Label         string  `json:"label,omitempty"`
	LogLikelihood float64 `json:"log_likelihood"`
}

// BankSummary describes one registered model bank.
type BankSummary struct {
	Name         string    `json:"name"`
	Classes      []string  `json:"classes"`
	Symbols      int       `json:"symbols"`
	Priors       []float64 `json:"priors"`
	HasThreshold bool      `json:"has_threshold"`
	Sensitivity  float64   `json:"sensitivity"`
}

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
