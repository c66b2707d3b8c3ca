// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bayes

import "math"

// LogAdd returns log(exp(a) + exp(b)) computed without leaving log space.
//
// Description:
//
//	Stable binary combine for log-domain accumulation. The larger operand
//	is factored out so the exponential never overflows:
//
//	    LogAdd(a, b) = max(a, b) + log1p(exp(-|a - b|))
//
//	Negative infinity is the identity element: LogAdd(-Inf, x) == x and
//	LogAdd(-Inf, -Inf) == -Inf, with no NaN produced. NaN operands
//	propagate unchanged.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func LogAdd(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// LogSumExp returns log(sum(exp(xs))) for a slice of log-domain values.
//
// The values are folded left to right with LogAdd starting from -Inf, so
// an empty or all--Inf input yields -Inf.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func LogSumExp(xs []float64) float64 {
	sum := math.Inf(-1)
	for _, x := range xs {
		sum = LogAdd(sum, x)
	}
	return sum
}
